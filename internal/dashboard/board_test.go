package dashboard

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/Zachdehooge/painel-ambiental/internal/config"
)

var fixedNow = time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 1
	cfg.Animation.Steps = 10
	cfg.Animation.Duration = 10 * time.Millisecond
	cfg.Refresh.Period = 5 * time.Millisecond
	cfg.Refresh.DisableDrift = true
	return cfg
}

func newTestBoard(cfg *config.Config) *Board {
	return New(cfg, zerolog.Nop(), WithClock(func() time.Time { return fixedNow }))
}

type updateLog struct {
	mu      sync.Mutex
	updates []Update
}

func (l *updateLog) add(u Update) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, u)
}

func (l *updateLog) texts(id string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, u := range l.updates {
		if u.Kind == KindText && u.ID == id {
			out = append(out, u.Text)
		}
	}
	return out
}

func (l *updateLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.updates)
}

func TestNewBoardInitialState(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	snap := b.Snapshot()

	g.Expect(snap.Charts).To(HaveLen(3))
	g.Expect(snap.Charts[0].Labels).To(HaveLen(30))
	g.Expect(snap.Map.Polygons).To(HaveLen(3))
	g.Expect(snap.Map.Markers).To(HaveLen(4))
	g.Expect(snap.LastUpdated).To(Equal("01/10/2025, 09:30"))

	area, ok := snap.Element(SurveyedAreaID)
	g.Expect(ok).To(BeTrue())
	g.Expect(area.Text).To(Equal("745"))

	stations, _ := snap.Element(StationsID)
	g.Expect(stations.Text).To(Equal("3"))

	seedlings, _ := snap.Element(SeedlingsID)
	g.Expect(seedlings.Trigger).To(Equal("visible"))
}

func TestStartCountsUpPageLoadCounters(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	log := &updateLog{}
	b.Subscribe(log.add)

	want, _ := b.Snapshot().Element(AvgNDVIID)
	g.Expect(b.Start(context.Background())).To(Succeed())

	g.Eventually(func() []string { return log.texts(SurveyedAreaID) }, time.Second).Should(HaveLen(10))
	g.Eventually(func() []string { return log.texts(AvgNDVIID) }, time.Second).Should(HaveLen(10))

	area := log.texts(SurveyedAreaID)
	g.Expect(area[0]).To(Equal("75"))
	g.Expect(area[9]).To(Equal("745"))
	g.Expect(log.texts(AvgNDVIID)[9]).To(Equal(want.Text))

	// visible-trigger counters wait for a report
	g.Expect(log.texts(MappedHaID)).To(BeEmpty())
}

func TestVisibleCounterRunsOnce(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	log := &updateLog{}
	b.Subscribe(log.add)
	g.Expect(b.Start(context.Background())).To(Succeed())

	b.ReportVisibility(SeedlingsID, 0.3)
	time.Sleep(30 * time.Millisecond)
	g.Expect(log.texts(SeedlingsID)).To(BeEmpty())

	b.ReportVisibility(SeedlingsID, 0.6)
	g.Eventually(func() []string { return log.texts(SeedlingsID) }, time.Second).Should(HaveLen(10))
	g.Expect(log.texts(SeedlingsID)[9]).To(Equal("1,200+"))

	b.ReportVisibility(SeedlingsID, 1)
	time.Sleep(30 * time.Millisecond)
	g.Expect(log.texts(SeedlingsID)).To(HaveLen(10))
}

func TestRevealCards(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	g.Expect(b.Start(context.Background())).To(Succeed())

	b.ReportVisibility("services", 0.05)
	g.Expect(b.Snapshot().Revealed).To(BeEmpty())
	b.ReportVisibility("services", 0.15)
	b.ReportVisibility("services", 0.9)
	g.Expect(b.Snapshot().Revealed).To(Equal([]string{"services"}))
}

func TestJitterStaysInDomain(t *testing.T) {
	g := NewWithT(t)

	cfg := testConfig()
	cfg.Refresh.DisableDrift = false
	cfg.Refresh.Period = time.Millisecond
	cfg.Refresh.NDVIDelta = 0.5

	b := newTestBoard(cfg)
	log := &updateLog{}
	b.Subscribe(log.add)
	g.Expect(b.Start(context.Background())).To(Succeed())

	g.Eventually(func() int { return len(log.texts(AvgNDVIID)) }, time.Second).Should(BeNumerically(">", 40))
	b.Close()

	for _, text := range log.texts(AvgNDVIID) {
		v, err := strconv.ParseFloat(text, 64)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(v).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
	}
	g.Expect(log.texts(LastUpdateID)).NotTo(BeEmpty())
}

func TestCloseReleasesEverything(t *testing.T) {
	g := NewWithT(t)

	cfg := testConfig()
	cfg.Refresh.DisableDrift = false
	cfg.Refresh.Period = time.Millisecond

	b := newTestBoard(cfg)
	log := &updateLog{}
	b.Subscribe(log.add)
	g.Expect(b.Start(context.Background())).To(Succeed())
	g.Eventually(log.count, time.Second).Should(BeNumerically(">", 20))

	b.Close()
	n := log.count()
	time.Sleep(20 * time.Millisecond)
	g.Expect(log.count()).To(Equal(n))

	b.ReportVisibility(MappedHaID, 1)
	g.Expect(log.texts(MappedHaID)).To(BeEmpty())

	g.Expect(b.Start(context.Background())).To(MatchError(ErrClosed))
	g.Expect(b.SetPeriod(7)).To(MatchError(ErrClosed))
	b.Close()
}

func TestStartTwice(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	g.Expect(b.Start(context.Background())).To(Succeed())
	g.Expect(b.Start(context.Background())).To(MatchError(ErrStarted))
}

func TestSetPeriod(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	log := &updateLog{}
	b.Subscribe(log.add)

	g.Expect(b.SetPeriod(90)).To(Succeed())
	snap := b.Snapshot()
	g.Expect(snap.PeriodDays).To(Equal(90))
	g.Expect(snap.Charts[0].Labels).To(HaveLen(30))
	g.Expect(snap.Charts[0].Series[0].Values).To(HaveLen(30))
	g.Expect(snap.Charts[0].Revision).To(Equal(1))

	g.Expect(log.updates).To(HaveLen(1))
	g.Expect(log.updates[0].Kind).To(Equal(KindChart))
	g.Expect(log.updates[0].ID).To(Equal(TemperatureChartID))

	g.Expect(b.SetPeriod(0)).To(MatchError(ErrInvalidPeriod))
	g.Expect(b.SetPeriod(366)).To(MatchError(ErrInvalidPeriod))
	g.Expect(b.SetPeriod(2_000_000_000)).To(MatchError(ErrInvalidPeriod))
	g.Expect(b.Snapshot().PeriodDays).To(Equal(90))
	g.Expect(log.count()).To(Equal(1))

	g.Expect(b.SetPeriod(365)).To(Succeed())
	g.Expect(b.Snapshot().Charts[0].Labels).To(HaveLen(37))
}

func TestSetNDVIRegion(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()

	g.Expect(b.SetNDVIRegion("north")).To(Succeed())
	ndvi := b.Snapshot().Charts[1]
	g.Expect(ndvi.Series[0].Values[0]).To(Equal(0.70))
	g.Expect(ndvi.Series[1].Values[0]).To(Equal(0.72))
	g.Expect(ndvi.Labels).To(HaveLen(12))

	g.Expect(b.SetNDVIRegion("nowhere")).To(Succeed())
	snap := b.Snapshot()
	g.Expect(snap.Charts[1].Series[0].Values[0]).To(Equal(0.65))
	g.Expect(snap.NDVIRegion).To(Equal("all"))

	cfg := testConfig()
	cfg.View.NDVIRegion = "nowhere"
	other := newTestBoard(cfg)
	defer other.Close()
	g.Expect(other.Snapshot().NDVIRegion).To(Equal("all"))
}

func TestSetMapLayer(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	log := &updateLog{}
	b.Subscribe(log.add)

	notice, err := b.SetMapLayer("drone")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(notice).To(Equal("Camada alterada para: Levantamento com Drone"))
	g.Expect(b.Snapshot().Map.Layer).To(Equal("drone"))

	g.Expect(log.updates).To(HaveLen(2))
	g.Expect(log.updates[0].Kind).To(Equal(KindMap))
	g.Expect(log.updates[1].Text).To(Equal(notice))
}

func TestUnsubscribe(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	log := &updateLog{}
	cancel := b.Subscribe(log.add)
	cancel()

	g.Expect(b.SetNDVIRegion("south")).To(Succeed())
	g.Expect(log.count()).To(Equal(0))
}

func TestUnparseableElementIsSkipped(t *testing.T) {
	g := NewWithT(t)

	b := newTestBoard(testConfig())
	defer b.Close()
	e, ok := b.Element(MappedHaID)
	g.Expect(ok).To(BeTrue())
	e.text = "N/A"

	log := &updateLog{}
	b.Subscribe(log.add)
	g.Expect(b.Start(context.Background())).To(Succeed())
	b.ReportVisibility(MappedHaID, 1)

	time.Sleep(30 * time.Millisecond)
	g.Expect(log.texts(MappedHaID)).To(BeEmpty())
	g.Expect(e.Text()).To(Equal("N/A"))
}
