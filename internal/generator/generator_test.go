package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/Zachdehooge/painel-ambiental/internal/config"
	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
)

func testBoard(t *testing.T) *dashboard.Board {
	cfg := config.DefaultConfig()
	cfg.Seed = 3
	b := dashboard.New(cfg, zerolog.Nop(), dashboard.WithClock(func() time.Time {
		return time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	}))
	t.Cleanup(b.Close)
	return b
}

func TestGenerateDashboardHTML(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "dashboard.html")
	g.Expect(GenerateDashboardHTML(testBoard(t).Snapshot(), path, 30*time.Second)).To(Succeed())

	data, err := os.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())
	page := string(data)

	g.Expect(page).To(ContainSubstring(`id="avgTemp"`))
	g.Expect(page).To(ContainSubstring(`id="seedlings">1,200&#43;<`))
	g.Expect(page).To(ContainSubstring(`id="lastUpdate">01/10/2025, 08:00<`))
	g.Expect(page).To(ContainSubstring(`<canvas id="temperatureChart">`))
	g.Expect(page).To(ContainSubstring("Levantamento Reflorestamento"))
	g.Expect(page).To(MatchRegexp(`const live = \s*false\s*;`))
	g.Expect(page).To(MatchRegexp(`const refreshMs = \s*30000\s*;`))
	g.Expect(page).To(ContainSubstring(`"id":"precipitationChart"`))

	_, err = os.Stat(path + ".tmp")
	g.Expect(os.IsNotExist(err)).To(BeTrue())
}

func TestRenderLivePage(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	g.Expect(RenderDashboardHTML(&buf, testBoard(t).Snapshot(), true, time.Second)).To(Succeed())
	g.Expect(buf.String()).To(MatchRegexp(`const live = \s*true\s*;`))
	g.Expect(buf.String()).To(ContainSubstring(`<option value="satellite" selected>`))
}

func TestWriteSnapshot(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "dashboard.json")
	g.Expect(WriteSnapshot(path, testBoard(t).Snapshot())).To(Succeed())

	data, err := os.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())

	var snap dashboard.Snapshot
	g.Expect(json.Unmarshal(data, &snap)).To(Succeed())
	area, ok := snap.Element(dashboard.SurveyedAreaID)
	g.Expect(ok).To(BeTrue())
	g.Expect(area.Text).To(Equal("745"))
	g.Expect(snap.Charts).To(HaveLen(3))
	g.Expect(snap.Map.Markers).To(HaveLen(4))
}

func TestRunSnapshotWriterStopsWithContext(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "dashboard.json")
	board := testBoard(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunSnapshotWriter(ctx, board, path, 5*time.Millisecond, zerolog.Nop())
	}()

	g.Eventually(func() error { _, err := os.Stat(path); return err }, time.Second).Should(Succeed())
	cancel()
	g.Eventually(done, time.Second).Should(Receive(BeNil()))
}

func TestRunSnapshotWriterBadPath(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "missing", "dashboard.json")
	err := RunSnapshotWriter(context.Background(), testBoard(t), path, time.Second, zerolog.Nop())
	g.Expect(err).To(HaveOccurred())
}

func TestRenderChartPNG(t *testing.T) {
	g := NewWithT(t)

	for _, c := range testBoard(t).Snapshot().Charts {
		var buf bytes.Buffer
		g.Expect(RenderChartPNG(c, &buf)).To(Succeed(), c.ID)
		g.Expect(buf.Bytes()[:4]).To(Equal([]byte("\x89PNG")))
	}
}

func TestRenderChartPNGRejectsShortSeries(t *testing.T) {
	g := NewWithT(t)

	c := dashboard.Chart{ID: "tiny", Labels: []string{"Jan"}, Series: []dashboard.Series{{Values: []float64{1}}}}
	err := RenderChartPNG(c, &bytes.Buffer{})
	g.Expect(errors.Is(err, ErrTooFewPoints)).To(BeTrue())

	c = dashboard.Chart{ID: "ragged", Labels: []string{"Jan", "Fev"}, Series: []dashboard.Series{{Values: []float64{1}}}}
	g.Expect(RenderChartPNG(c, &bytes.Buffer{})).NotTo(Succeed())
}

func TestWriteChartImages(t *testing.T) {
	g := NewWithT(t)

	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteChartImages(dir, testBoard(t).Snapshot().Charts)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(paths).To(HaveLen(3))
	g.Expect(paths[1]).To(HaveSuffix("ndviChart.png"))
	for _, p := range paths {
		g.Expect(p).To(BeAnExistingFile())
	}
}

func TestRenderASCII(t *testing.T) {
	g := NewWithT(t)

	snap := testBoard(t).Snapshot()
	out, err := RenderASCII(snap.Charts[2], 60, 10)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("Precipitação (mm)"))
	g.Expect(strings.Count(out, "\n")).To(BeNumerically(">=", 10))

	_, err = RenderASCII(dashboard.Chart{ID: "empty"}, 60, 10)
	g.Expect(err).To(MatchError(ErrTooFewPoints))
}
