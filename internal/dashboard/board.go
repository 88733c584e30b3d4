// Package dashboard is the controller behind one view of the environmental
// dashboard. A Board owns the view's charts, map and counters, and every
// timer it starts; Close releases all of them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/Zachdehooge/painel-ambiental/internal/animator"
	"github.com/Zachdehooge/painel-ambiental/internal/config"
	"github.com/Zachdehooge/painel-ambiental/internal/dataset"
	"github.com/Zachdehooge/painel-ambiental/internal/visibility"
	"github.com/rs/zerolog"
)

var (
	ErrClosed        = errors.New("board closed")
	ErrInvalidPeriod = errors.New("period must be between 1 and 365 days")
	ErrStarted       = errors.New("board already started")
)

// Element ids.
const (
	AvgTempID       = "avgTemp"
	AvgNDVIID       = "avgNDVI"
	SurveyedAreaID  = "surveyedArea"
	StationsID      = "activeStations"
	MappedHaID      = "mappedHectares"
	FamiliesID      = "families"
	ResolutionID    = "droneResolution"
	SeedlingsID     = "seedlings"
	ProjectsID      = "projects"
	LastUpdateID    = "lastUpdate"
	lastUpdateStyle = "02/01/2006, 15:04"
)

// RevealCards are the card groups that fade in when scrolled into view.
var RevealCards = []string{"services", "impact", "projects-grid", "tech"}

// Update kinds.
const (
	KindText   = "text"
	KindChart  = "chart"
	KindMap    = "map"
	KindNotice = "notice"
	KindReveal = "reveal"
)

// Update is one change a view has to apply.
type Update struct {
	Kind  string   `json:"type"`
	ID    string   `json:"id,omitempty"`
	Text  string   `json:"text,omitempty"`
	Chart *Chart   `json:"chart,omitempty"`
	Map   *MapView `json:"map,omitempty"`
}

// Snapshot is the full state of a board at one instant.
type Snapshot struct {
	Elements     []ElementState   `json:"elements"`
	Charts       []Chart          `json:"charts"`
	Map          MapView          `json:"map"`
	Surveys      []dataset.Survey `json:"surveys"`
	Revealed     []string         `json:"revealed"`
	LastUpdated  string           `json:"lastUpdated"`
	UpdatedAtUTC int64            `json:"updatedAtUTC"`
	PeriodDays   int              `json:"periodDays"`
	NDVIRegion   string           `json:"ndviRegion"`
}

// Element returns the element state with the given id.
func (s Snapshot) Element(id string) (ElementState, bool) {
	for _, e := range s.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return ElementState{}, false
}

type Board struct {
	cfg     *config.Config
	log     zerolog.Logger
	anim    *animator.Animator
	tracker *visibility.Tracker
	now     func() time.Time

	elements []*Element
	byID     map[string]*Element

	mu       sync.Mutex
	rng      *rand.Rand
	charts   *Charts
	mapView  *MapView
	revealed []string
	days     int
	region   string
	updated  time.Time
	ctx      context.Context
	handles  []*animator.Handle
	started  bool
	closed   bool

	lmu       sync.Mutex
	listeners map[int]func(Update)
	nextSub   int
}

// Option adjusts a board at construction.
type Option func(*Board)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// New builds a board from cfg. Nothing runs until Start.
func New(cfg *config.Config, log zerolog.Logger, opts ...Option) *Board {
	b := &Board{
		cfg:       cfg,
		log:       log,
		anim:      animator.New(cfg.Animation.Steps, cfg.Animation.Duration, log),
		tracker:   visibility.NewTracker(),
		now:       time.Now,
		byID:      make(map[string]*Element),
		rng:       rand.New(rand.NewPCG(cfg.Seed, 0x9e3779b97f4a7c15)),
		days:      cfg.View.TemperatureDays,
		region:    knownRegion(cfg.View.NDVIRegion),
		listeners: make(map[int]func(Update)),
	}
	for _, o := range opts {
		o(b)
	}

	b.updated = b.now()
	b.charts = newCharts(b.days, b.region, b.updated, b.rng)
	b.mapView = newMapView(cfg.View.MapLayer)
	b.buildElements()
	return b
}

func (b *Board) buildElements() {
	r := b.cfg.Refresh
	temp := dataset.Mean(b.charts.Temperature.Series[0].Values)
	ndvi := dataset.Mean(b.charts.NDVI.Series[0].Values)
	stations := dataset.OnlineStations(dataset.Stations())
	area := dataset.TotalSurveyedArea(dataset.Surveys())

	var tempJitter, ndviJitter *animator.Jitter
	if !r.DisableDrift {
		tempJitter = &animator.Jitter{Min: r.TempMin, Max: r.TempMax, MaxDelta: r.TempDelta, Period: r.Period, Precision: 1}
		ndviJitter = &animator.Jitter{Min: 0, Max: 1, MaxDelta: r.NDVIDelta, Period: r.Period, Precision: 2}
	}

	add := func(e *Element, text string) {
		e.text = text
		e.notify = b.emit
		b.elements = append(b.elements, e)
		b.byID[e.ID] = e
	}

	add(&Element{ID: AvgTempID, Label: "Temperatura Média (°C)", Precision: 1, Trigger: OnLoad, Jitter: tempJitter}, fmt.Sprintf("%.1f", temp))
	add(&Element{ID: AvgNDVIID, Label: "NDVI Médio", Precision: 2, Trigger: OnLoad, Jitter: ndviJitter}, fmt.Sprintf("%.2f", ndvi))
	add(&Element{ID: SurveyedAreaID, Label: "Área Levantada (ha)", Trigger: OnLoad}, fmt.Sprintf("%.0f", area))
	add(&Element{ID: StationsID, Label: "Estações Ativas", Trigger: OnLoad}, fmt.Sprintf("%d", stations))

	add(&Element{ID: MappedHaID, Label: "Hectares mapeados", Trigger: OnVisible}, "380")
	add(&Element{ID: FamiliesID, Label: "Famílias envolvidas", Trigger: OnVisible}, "12")
	add(&Element{ID: ResolutionID, Label: "Resolução do drone", Trigger: OnVisible}, "5cm")
	add(&Element{ID: SeedlingsID, Label: "Mudas plantadas", Trigger: OnVisible}, "1,200+")
	add(&Element{ID: ProjectsID, Label: "Projetos", Trigger: OnVisible}, "50+")

	add(&Element{ID: LastUpdateID, Label: "Última atualização", Trigger: Static}, b.updated.Format(lastUpdateStyle))
}

// Start runs the page-load counters, arms the visible ones and starts the
// periodic refresh. Everything it schedules is tied to ctx and to Close.
func (b *Board) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.started {
		b.mu.Unlock()
		return ErrStarted
	}
	b.started = true
	b.ctx = ctx
	b.mu.Unlock()

	for _, card := range RevealCards {
		b.tracker.Once(card, visibility.RevealThreshold, func() { b.reveal(card) })
	}

	for i, e := range b.elements {
		switch e.Trigger {
		case OnLoad:
			b.countUp(e)
		case OnVisible:
			b.tracker.Once(e.ID, visibility.CounterThreshold, func() { b.countUp(e) })
		}
		if e.Jitter != nil {
			rng := rand.New(rand.NewPCG(b.cfg.Seed, uint64(i)+1))
			b.keep(b.anim.Refresh(ctx, e, *e.Jitter, rng))
		}
	}

	if last, ok := b.byID[LastUpdateID]; ok {
		b.keep(b.anim.Every(ctx, b.cfg.Refresh.Period, func(now time.Time) {
			b.mu.Lock()
			b.updated = now
			b.mu.Unlock()
			last.SetText(now.Format(lastUpdateStyle))
		}))
	}

	b.log.Debug().Int("elements", len(b.elements)).Msg("board started")
	return nil
}

// countUp animates e from zero. Text that is not numeric is left alone.
func (b *Board) countUp(e *Element) {
	b.mu.Lock()
	ctx, closed := b.ctx, b.closed
	b.mu.Unlock()
	if closed {
		return
	}

	h, err := b.anim.CountUp(ctx, e, e.Precision)
	if err != nil {
		b.log.Debug().Err(err).Str("id", e.ID).Msg("count-up skipped")
		return
	}
	b.keep(h)
}

// keep records h so Close can release it. A board closed in the meantime
// releases h straight away.
func (b *Board) keep(h *animator.Handle) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		h.Release()
		return
	}
	b.handles = append(b.handles, h)
	b.mu.Unlock()
}

func (b *Board) reveal(card string) {
	b.mu.Lock()
	b.revealed = append(b.revealed, card)
	b.mu.Unlock()
	b.emit(Update{Kind: KindReveal, ID: card})
}

// ReportVisibility passes a visibility report to the tracker.
func (b *Board) ReportVisibility(id string, ratio float64) {
	b.tracker.Report(id, ratio)
}

// SetPeriod redraws the temperature chart over the last days.
func (b *Board) SetPeriod(days int) error {
	if days < 1 || days > dataset.MaxDays {
		return fmt.Errorf("%w: %d", ErrInvalidPeriod, days)
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	s := dataset.SimulateTemperature(days, b.now(), b.rng, dataset.PeriodShape)
	b.days = days
	b.charts.Temperature.Replace(s.Labels, s.Satellite, s.Drone)
	c := b.charts.Temperature.Clone()
	b.mu.Unlock()

	b.emit(Update{Kind: KindChart, ID: c.ID, Chart: &c})
	return nil
}

// SetNDVIRegion swaps the NDVI chart to another region's table. Unknown
// regions show the "all" table and are recorded as such.
func (b *Board) SetNDVIRegion(region string) error {
	region = knownRegion(region)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	sat, drone := dataset.NDVI(region)
	b.region = region
	b.charts.NDVI.Replace(nil, sat, drone)
	c := b.charts.NDVI.Clone()
	b.mu.Unlock()

	b.emit(Update{Kind: KindChart, ID: c.ID, Chart: &c})
	return nil
}

// SetMapLayer switches the map layer and returns the notice shown to the user.
func (b *Board) SetMapLayer(layer string) (string, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return "", ErrClosed
	}
	b.mapView.Layer = layer
	m := b.mapView.Clone()
	b.mu.Unlock()

	notice := "Camada alterada para: " + dataset.LayerName(layer)
	b.emit(Update{Kind: KindMap, Map: &m})
	b.emit(Update{Kind: KindNotice, Text: notice})
	return notice, nil
}

func knownRegion(region string) string {
	if !slices.Contains(dataset.NDVIRegions, region) {
		return dataset.NDVIRegions[0]
	}
	return region
}

// Element returns the element with the given id.
func (b *Board) Element(id string) (*Element, bool) {
	e, ok := b.byID[id]
	return e, ok
}

// Snapshot copies the current state of the board.
func (b *Board) Snapshot() Snapshot {
	elements := make([]ElementState, 0, len(b.elements))
	for _, e := range b.elements {
		elements = append(elements, e.state())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	charts := make([]Chart, 0, 3)
	for _, c := range b.charts.all() {
		charts = append(charts, c.Clone())
	}
	return Snapshot{
		Elements:     elements,
		Charts:       charts,
		Map:          b.mapView.Clone(),
		Surveys:      dataset.Surveys(),
		Revealed:     append([]string(nil), b.revealed...),
		LastUpdated:  b.updated.Format(lastUpdateStyle),
		UpdatedAtUTC: b.updated.UTC().Unix(),
		PeriodDays:   b.days,
		NDVIRegion:   b.region,
	}
}

// Subscribe registers fn for every update. fn runs on the goroutine that
// made the change and must not block. The returned func unsubscribes.
func (b *Board) Subscribe(fn func(Update)) func() {
	b.lmu.Lock()
	id := b.nextSub
	b.nextSub++
	b.listeners[id] = fn
	b.lmu.Unlock()

	return func() {
		b.lmu.Lock()
		delete(b.listeners, id)
		b.lmu.Unlock()
	}
}

func (b *Board) emit(u Update) {
	b.lmu.Lock()
	fns := make([]func(Update), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.lmu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}

// Close releases every timer the board started and waits for them to stop.
func (b *Board) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	handles := b.handles
	b.handles = nil
	b.mu.Unlock()

	for _, card := range RevealCards {
		b.tracker.Forget(card)
	}
	for _, e := range b.elements {
		b.tracker.Forget(e.ID)
	}
	for _, h := range handles {
		h.Release()
	}
	b.log.Debug().Int("handles", len(handles)).Msg("board closed")
}
