package timer

import (
	"sync"
	"time"
)

// Ticker is a wall-clock quantum timer built on time.AfterFunc. Every rearm
// starts a new generation; callbacks of older generations are dropped, which
// is what lets Reset discard an expiry that raced with it.
type Ticker struct {
	mu      sync.Mutex
	quantum time.Duration
	expire  func()
	t       *time.Timer
	gen     uint64
	running bool
}

// NewTicker creates a stopped Ticker.
func NewTicker() *Ticker {
	return &Ticker{}
}

func (tk *Ticker) Start(quantum time.Duration, expire func()) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if tk.running {
		return ErrAlreadyStarted
	}
	tk.quantum = quantum
	tk.expire = expire
	tk.running = true
	tk.arm()
	return nil
}

func (tk *Ticker) Reset() error {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if !tk.running {
		return ErrNotStarted
	}
	tk.arm()
	return nil
}

func (tk *Ticker) Stop() error {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	tk.running = false
	tk.gen++
	if tk.t != nil {
		tk.t.Stop()
		tk.t = nil
	}
	return nil
}

// arm must be called with tk.mu held.
func (tk *Ticker) arm() {
	tk.gen++
	gen := tk.gen
	if tk.t != nil {
		tk.t.Stop()
	}
	tk.t = time.AfterFunc(tk.quantum, func() { tk.fire(gen) })
}

func (tk *Ticker) fire(gen uint64) {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if !tk.running || gen != tk.gen {
		return
	}
	tk.expire()
	tk.arm()
}
