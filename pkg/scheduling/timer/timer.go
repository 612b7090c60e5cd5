package timer

import (
	"errors"
	"time"
)

// Timer delivers a periodic quantum-expiry event. Implementations call the
// expire function asynchronously, once per elapsed quantum, until stopped.
// The callback must be cheap and must not call back into the Timer.
type Timer interface {
	// Start arms the timer to expire every quantum.
	Start(quantum time.Duration, expire func()) error

	// Reset rearms the timer for one full quantum from now. An expiry that
	// belongs to the period being replaced is not delivered after Reset
	// returns.
	Reset() error

	// Stop disarms the timer. No expiry is delivered after Stop returns.
	Stop() error
}

var (
	// ErrAlreadyStarted is returned by Start on a running timer.
	ErrAlreadyStarted = errors.New("timer already started")

	// ErrNotStarted is returned by Reset on a timer that is not running.
	ErrNotStarted = errors.New("timer not started")
)
