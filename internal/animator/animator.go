// Package animator drives on-screen counters: a bounded count-up from zero
// to a target, and an unbounded jitter that nudges a value inside a range.
package animator

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultSteps    = 60
	DefaultDuration = 2 * time.Second
)

// Display is anything that shows a line of text and can be rewritten.
type Display interface {
	Text() string
	SetText(string)
}

// Animation is a count-up in progress. It always starts from zero.
type Animation struct {
	counter   Counter
	target    float64
	increment float64
	steps     int
	step      int
}

// NewAnimation prepares a count-up towards target, printed the way c prints.
func NewAnimation(c Counter, target float64, steps int) (*Animation, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, ErrNonFinite
	}
	if steps < 1 {
		steps = DefaultSteps
	}
	return &Animation{
		counter:   c,
		target:    target,
		increment: target / float64(steps),
		steps:     steps,
	}, nil
}

// Next advances one tick and returns the text to show. done is true on the
// final tick, whose value is exactly the target.
func (a *Animation) Next() (text string, done bool) {
	if a.step >= a.steps {
		return a.counter.Format(a.target), true
	}
	a.step++
	v := a.increment * float64(a.step)
	if a.step == a.steps {
		v = a.target
	}
	return a.counter.Format(v), a.step == a.steps
}

// Steps returns the number of updates the animation emits.
func (a *Animation) Steps() int { return a.steps }

// Handle owns one scheduled animation or refresh loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newHandle(ctx context.Context) (context.Context, *Handle) {
	ctx, cancel := context.WithCancel(ctx)
	return ctx, &Handle{cancel: cancel, done: make(chan struct{})}
}

// Done is closed once the loop has exited, on its own or through Release.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Release stops the loop and waits for it to exit. Safe to call more than once.
func (h *Handle) Release() {
	h.once.Do(h.cancel)
	<-h.done
}

// Animator schedules count-ups and jitter refreshes.
type Animator struct {
	Steps    int
	Duration time.Duration
	Log      zerolog.Logger
}

// New returns an Animator with the given pacing; zero values fall back to
// 60 steps over two seconds.
func New(steps int, duration time.Duration, log zerolog.Logger) *Animator {
	if steps < 1 {
		steps = DefaultSteps
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{Steps: steps, Duration: duration, Log: log}
}

// AnimateTo counts d up from zero to target. The decorations are taken from
// the text d currently shows. Nothing is scheduled when that text is not
// numeric or target is not finite.
func (an *Animator) AnimateTo(ctx context.Context, d Display, target float64, precision int) (*Handle, error) {
	c, err := ParseCounter(d.Text(), precision)
	if err != nil {
		return nil, err
	}
	a, err := NewAnimation(c, target, an.Steps)
	if err != nil {
		return nil, err
	}
	return an.run(ctx, d, a), nil
}

// CountUp animates d from zero to the value it currently shows.
func (an *Animator) CountUp(ctx context.Context, d Display, precision int) (*Handle, error) {
	c, err := ParseCounter(d.Text(), precision)
	if err != nil {
		return nil, err
	}
	a, err := NewAnimation(c, c.Value, an.Steps)
	if err != nil {
		return nil, err
	}
	return an.run(ctx, d, a), nil
}

func (an *Animator) run(ctx context.Context, d Display, a *Animation) *Handle {
	ctx, h := newHandle(ctx)
	interval := an.Duration / time.Duration(a.Steps())
	if interval <= 0 {
		interval = time.Millisecond
	}

	go func() {
		defer close(h.done)
		defer h.cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				an.Log.Debug().Msg("animation released before completion")
				return
			case <-ticker.C:
				text, done := a.Next()
				d.SetText(text)
				if done {
					return
				}
			}
		}
	}()
	return h
}
