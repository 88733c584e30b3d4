package dashboard

import (
	"sync"

	"github.com/Zachdehooge/painel-ambiental/internal/animator"
)

// Trigger says when an element's count-up starts.
type Trigger int

const (
	// OnLoad counters animate as soon as the board starts.
	OnLoad Trigger = iota
	// OnVisible counters animate the first time they are half on screen.
	OnVisible
	// Static elements never animate.
	Static
)

func (t Trigger) String() string {
	switch t {
	case OnLoad:
		return "load"
	case OnVisible:
		return "visible"
	default:
		return "static"
	}
}

// Element is one piece of text on the dashboard that the board may rewrite.
// It satisfies animator.Display.
type Element struct {
	ID        string
	Label     string
	Precision int
	Trigger   Trigger
	Jitter    *animator.Jitter

	mu     sync.Mutex
	text   string
	notify func(Update)
}

func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// SetText replaces the text and tells the board's listeners.
func (e *Element) SetText(s string) {
	e.mu.Lock()
	e.text = s
	notify := e.notify
	e.mu.Unlock()

	if notify != nil {
		notify(Update{Kind: KindText, ID: e.ID, Text: s})
	}
}

// ElementState is an element as it appears in a snapshot.
type ElementState struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Text    string `json:"text"`
	Trigger string `json:"trigger"`
}

func (e *Element) state() ElementState {
	return ElementState{ID: e.ID, Label: e.Label, Text: e.Text(), Trigger: e.Trigger.String()}
}
