// Package visibility turns "how much of this element is on screen" reports
// into one-shot callbacks.
package visibility

import "sync"

const (
	RevealThreshold  = 0.1
	CounterThreshold = 0.5
)

type registration struct {
	threshold float64
	fn        func()
}

// Tracker holds one-shot callbacks keyed by element id.
type Tracker struct {
	mu      sync.Mutex
	pending map[string][]registration
}

func NewTracker() *Tracker {
	return &Tracker{pending: make(map[string][]registration)}
}

// Once arms fn to run the first time id is reported at least threshold
// visible. An element may carry several registrations at different
// thresholds; each fires once.
func (t *Tracker) Once(id string, threshold float64, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[id] = append(t.pending[id], registration{threshold: threshold, fn: fn})
}

// Report records that ratio of id is visible and runs whatever became due.
// Callbacks run on the caller's goroutine, outside the lock.
func (t *Tracker) Report(id string, ratio float64) int {
	t.mu.Lock()
	regs := t.pending[id]
	var due []func()
	kept := regs[:0]
	for _, r := range regs {
		if ratio >= r.threshold {
			due = append(due, r.fn)
		} else {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(t.pending, id)
	} else {
		t.pending[id] = kept
	}
	t.mu.Unlock()

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Armed reports whether id still has callbacks waiting.
func (t *Tracker) Armed(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending[id]) > 0
}

// Forget drops every registration for id.
func (t *Tracker) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
}
