package animator

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// DefaultPeriod is how often a jitter refresh nudges its value.
const DefaultPeriod = 30 * time.Second

// Jitter describes a value that drifts randomly inside [Min, Max].
type Jitter struct {
	Min       float64
	Max       float64
	MaxDelta  float64
	Period    time.Duration
	Precision int
}

// Tick returns current moved by a uniform random amount in
// [-maxDelta, +maxDelta] and clamped to [lo, hi].
func Tick(current, lo, hi, maxDelta float64, rng *rand.Rand) float64 {
	delta := (rng.Float64()*2 - 1) * maxDelta
	return max(lo, min(hi, current+delta))
}

// Step reads the value shown by d, applies one Tick and writes it back.
// It reports false and leaves d alone when the text is not numeric.
func (j Jitter) Step(d Display, rng *rand.Rand) bool {
	c, err := ParseCounter(d.Text(), j.Precision)
	if err != nil {
		return false
	}
	next := c.Round(Tick(c.Value, j.Min, j.Max, j.MaxDelta, rng))

	// Rounding may cross a bound that has more digits than the display.
	scale := math.Pow10(j.Precision)
	if next > j.Max {
		next = math.Floor(j.Max*scale) / scale
	}
	if next < j.Min {
		next = math.Ceil(j.Min*scale) / scale
	}
	d.SetText(c.Format(next))
	return true
}

// Refresh runs j.Step on d every period until the handle is released or ctx
// ends. It never finishes on its own.
func (an *Animator) Refresh(ctx context.Context, d Display, j Jitter, rng *rand.Rand) *Handle {
	period := j.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	ctx, h := newHandle(ctx)

	go func() {
		defer close(h.done)
		defer h.cancel()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !j.Step(d, rng) {
					an.Log.Debug().Str("text", d.Text()).Msg("jitter skipped, display not numeric")
				}
			}
		}
	}()
	return h
}

// Every calls fn every period until the handle is released. The dashboard
// uses it for the "last update" clock that ticks alongside the jitter.
func (an *Animator) Every(ctx context.Context, period time.Duration, fn func(time.Time)) *Handle {
	if period <= 0 {
		period = DefaultPeriod
	}
	ctx, h := newHandle(ctx)

	go func() {
		defer close(h.done)
		defer h.cancel()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	}()
	return h
}
