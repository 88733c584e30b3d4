package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/Zachdehooge/painel-ambiental/internal/config"
	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	cfg := config.DefaultConfig()
	cfg.Seed = 11
	cfg.Animation.Steps = 5
	cfg.Animation.Duration = 10 * time.Millisecond
	cfg.Refresh.Period = time.Hour
	cfg.Refresh.DisableDrift = true

	s := New(cfg, zerolog.Nop(), dashboard.WithClock(func() time.Time {
		return time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)
	}))
	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		ts.Close()
		s.shared.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads updates until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(dashboard.Update) bool) dashboard.Update {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var u dashboard.Update
		if err := conn.ReadJSON(&u); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(u) {
			return u
		}
	}
}

func TestPage(t *testing.T) {
	g := NewWithT(t)
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/")
	g.Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(resp.StatusCode).To(Equal(http.StatusOK))
	g.Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/html"))
	g.Expect(string(body)).To(ContainSubstring(`id="surveyedArea">745<`))
	g.Expect(string(body)).To(MatchRegexp(`const live = \s*true\s*;`))
}

func TestSnapshotAPI(t *testing.T) {
	g := NewWithT(t)
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/snapshot")
	g.Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	g.Expect(resp.StatusCode).To(Equal(http.StatusOK))

	var snap dashboard.Snapshot
	g.Expect(json.NewDecoder(resp.Body).Decode(&snap)).To(Succeed())
	g.Expect(snap.Elements).To(HaveLen(10))
	g.Expect(snap.LastUpdated).To(Equal("01/10/2025, 09:30"))
	g.Expect(snap.PeriodDays).To(Equal(30))
}

func TestUnknownRoute(t *testing.T) {
	g := NewWithT(t)
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	g.Expect(err).NotTo(HaveOccurred())
	resp.Body.Close()
	g.Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
}

func TestWebsocketStreamsCharts(t *testing.T) {
	g := NewWithT(t)
	_, ts := testServer(t)
	conn := dial(t, ts)

	seen := map[string]bool{}
	readUntil(t, conn, func(u dashboard.Update) bool {
		if u.Kind == dashboard.KindChart {
			seen[u.ID] = true
		}
		return len(seen) == 3
	})
	g.Expect(seen).To(HaveKey(dashboard.NDVIChartID))
}

func TestWebsocketPageLoadCounters(t *testing.T) {
	g := NewWithT(t)
	_, ts := testServer(t)
	conn := dial(t, ts)

	u := readUntil(t, conn, func(u dashboard.Update) bool {
		return u.Kind == dashboard.KindText && u.ID == dashboard.SurveyedAreaID && u.Text == "745"
	})
	g.Expect(u.Text).To(Equal("745"))
}

func TestWebsocketVisibleCounter(t *testing.T) {
	g := NewWithT(t)
	_, ts := testServer(t)
	conn := dial(t, ts)

	g.Expect(conn.WriteJSON(Inbound{Type: "visible", ID: dashboard.SeedlingsID, Ratio: 0.8})).To(Succeed())
	u := readUntil(t, conn, func(u dashboard.Update) bool {
		return u.Kind == dashboard.KindText && u.ID == dashboard.SeedlingsID && u.Text == "1,200+"
	})
	g.Expect(u.ID).To(Equal(dashboard.SeedlingsID))

	g.Expect(conn.WriteJSON(Inbound{Type: "visible", ID: "services", Ratio: 0.2})).To(Succeed())
	readUntil(t, conn, func(u dashboard.Update) bool {
		return u.Kind == dashboard.KindReveal && u.ID == "services"
	})
}

func TestWebsocketControls(t *testing.T) {
	g := NewWithT(t)
	_, ts := testServer(t)
	conn := dial(t, ts)

	g.Expect(conn.WriteJSON(Inbound{Type: "period", Days: 7})).To(Succeed())
	u := readUntil(t, conn, func(u dashboard.Update) bool {
		return u.Kind == dashboard.KindChart && u.Chart != nil && u.Chart.Revision > 0
	})
	g.Expect(u.ID).To(Equal(dashboard.TemperatureChartID))
	g.Expect(u.Chart.Labels).To(HaveLen(7))

	g.Expect(conn.WriteJSON(Inbound{Type: "layer", Layer: "ndvi"})).To(Succeed())
	u = readUntil(t, conn, func(u dashboard.Update) bool { return u.Kind == dashboard.KindNotice })
	g.Expect(u.Text).To(Equal("Camada alterada para: Índice de Vegetação (NDVI)"))
}

func TestWebsocketDisconnectClosesBoard(t *testing.T) {
	g := NewWithT(t)
	s, ts := testServer(t)
	conn := dial(t, ts)

	g.Eventually(s.Connections, time.Second).Should(BeEquivalentTo(1))
	conn.Close()
	g.Eventually(s.Connections, time.Second).Should(BeZero())
}

func TestApply(t *testing.T) {
	g := NewWithT(t)
	cfg := config.DefaultConfig()
	board := dashboard.New(cfg, zerolog.Nop())
	defer board.Close()

	g.Expect(Apply(board, Inbound{Type: "region", Region: "south"})).To(Succeed())
	g.Expect(board.Snapshot().NDVIRegion).To(Equal("south"))

	err := Apply(board, Inbound{Type: "period", Days: 0})
	g.Expect(errors.Is(err, dashboard.ErrInvalidPeriod)).To(BeTrue())

	start := time.Now()
	err = Apply(board, Inbound{Type: "period", Days: 2_000_000_000})
	g.Expect(errors.Is(err, dashboard.ErrInvalidPeriod)).To(BeTrue())
	g.Expect(time.Since(start)).To(BeNumerically("<", time.Second))
	g.Expect(board.Snapshot().PeriodDays).To(Equal(config.DefaultTempDays))

	g.Expect(Apply(board, Inbound{Type: "region", Region: "atlantis"})).To(Succeed())
	g.Expect(board.Snapshot().NDVIRegion).To(Equal("all"))

	err = Apply(board, Inbound{Type: "dance"})
	g.Expect(errors.Is(err, ErrUnknownMessage)).To(BeTrue())
}
