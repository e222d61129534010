// Package testutil holds deterministic doubles for driving sessions in tests.
package testutil

import (
	"sync"
	"time"
)

// ManualScheduler queues delayed steps until a test runs them. Delays are
// recorded but never waited on.
type ManualScheduler struct {
	mu     sync.Mutex
	queue  []func()
	delays []time.Duration
}

// NewManualScheduler returns an empty scheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After queues fn
func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
	m.delays = append(m.delays, d)
}

// Pending returns the number of queued steps
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Delays returns every delay requested so far, queued or already run
func (m *ManualScheduler) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.delays))
	copy(out, m.delays)
	return out
}

// RunNext runs the oldest queued step and reports whether there was one
func (m *ManualScheduler) RunNext() bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	fn()
	return true
}

// RunAll drains the queue, including steps queued while draining, up to
// limit steps. It returns how many ran.
func (m *ManualScheduler) RunAll(limit int) int {
	n := 0
	for n < limit && m.RunNext() {
		n++
	}
	return n
}
