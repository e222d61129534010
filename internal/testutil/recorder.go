package testutil

import (
	"sync"

	"github.com/Tydestiny/Incan-Gold/internal/game"
)

// Recorder is a notifier that keeps every event it receives
type Recorder struct {
	mu     sync.Mutex
	events []game.Event
}

// Notify implements game.Notifier
func (r *Recorder) Notify(ev game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded
func (r *Recorder) Events() []game.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]game.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the recorded event kinds in order
func (r *Recorder) Kinds() []game.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]game.EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// OfKind returns the recorded events of one kind
func (r *Recorder) OfKind(kind game.EventKind) []game.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []game.Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Last returns the most recent event of kind, if any
func (r *Recorder) Last(kind game.EventKind) (game.Event, bool) {
	evs := r.OfKind(kind)
	if len(evs) == 0 {
		return game.Event{}, false
	}
	return evs[len(evs)-1], true
}

// Reset forgets everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
