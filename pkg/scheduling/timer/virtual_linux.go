//go:build linux

package timer

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	uterrors "github.com/vnykmshr/uthreads/pkg/common/errors"
)

// Virtual measures quanta in process CPU time with ITIMER_VIRTUAL and
// receives SIGVTALRM on expiry. The interval timer is process-wide, so at
// most one Virtual may run at a time.
//
// Like Ticker, every rearm starts a new generation. A signal is only
// delivered if no Reset or Stop happened between its receipt and the
// expiry call.
type Virtual struct {
	mu      sync.Mutex
	quantum time.Duration
	expire  func()
	sigs    chan os.Signal
	rearm   chan struct{}
	stop    chan struct{}
	gen     atomic.Uint64
	running bool
}

// NewVirtual creates a stopped Virtual timer.
func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Start(quantum time.Duration, expire func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.running {
		return ErrAlreadyStarted
	}

	v.sigs = make(chan os.Signal, 1)
	signal.Notify(v.sigs, unix.SIGVTALRM)
	if err := setitimer(quantum); err != nil {
		signal.Stop(v.sigs)
		return uterrors.NewOperationError("timer", "Start", err)
	}

	v.quantum = quantum
	v.expire = expire
	v.rearm = make(chan struct{}, 1)
	v.stop = make(chan struct{})
	v.gen.Add(1)
	v.running = true
	go v.loop(v.sigs, v.rearm, v.stop)
	return nil
}

func (v *Virtual) Reset() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.running {
		return ErrNotStarted
	}
	if err := setitimer(v.quantum); err != nil {
		return uterrors.NewOperationError("timer", "Reset", err)
	}
	v.gen.Add(1)
	// a signal already queued belongs to the replaced period
	select {
	case <-v.sigs:
	default:
	}
	select {
	case v.rearm <- struct{}{}:
	default:
	}
	return nil
}

func (v *Virtual) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.running {
		return nil
	}
	v.running = false
	v.gen.Add(1)
	err := setitimer(0)
	signal.Stop(v.sigs)
	close(v.stop)
	if err != nil {
		return uterrors.NewOperationError("timer", "Stop", err)
	}
	return nil
}

func (v *Virtual) loop(sigs <-chan os.Signal, rearm <-chan struct{}, stop <-chan struct{}) {
	for {
		gen := v.gen.Load()
		select {
		case <-stop:
			return
		case <-rearm:
		case <-sigs:
			v.deliver(gen)
		}
	}
}

// deliver calls expire for a signal received during generation gen.
func (v *Virtual) deliver(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.running && gen == v.gen.Load() {
		v.expire()
	}
}

// setitimer arms ITIMER_VIRTUAL with both value and interval set to d;
// d == 0 disarms it.
func setitimer(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if _, err := unix.Setitimer(unix.ItimerVirtual, unix.Itimerval{Interval: tv, Value: tv}); err != nil {
		return fmt.Errorf("%w: setitimer: %w", uterrors.ErrPlatform, err)
	}
	return nil
}
