package timer

import (
	"sync"
	"time"
)

// Manual is a Timer that only expires when told to. It makes dispatch
// sequences deterministic in tests and lets an embedding program drive
// preemption from its own event source.
type Manual struct {
	mu      sync.Mutex
	quantum time.Duration
	expire  func()
	running bool
	starts  int
	resets  int

	// StartErr, when set, is returned by Start instead of arming the timer.
	StartErr error
}

// NewManual creates a stopped Manual timer.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Start(quantum time.Duration, expire func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.StartErr != nil {
		return m.StartErr
	}
	if m.running {
		return ErrAlreadyStarted
	}
	m.quantum = quantum
	m.expire = expire
	m.running = true
	m.starts++
	return nil
}

func (m *Manual) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return ErrNotStarted
	}
	m.resets++
	return nil
}

func (m *Manual) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	return nil
}

// Expire raises one quantum expiry. It reports false, doing nothing, when
// the timer is not running.
func (m *Manual) Expire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return false
	}
	m.expire()
	return true
}

// Running reports whether the timer is armed.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Quantum returns the period passed to Start.
func (m *Manual) Quantum() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quantum
}

// Resets returns how many times the timer was rearmed.
func (m *Manual) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}
