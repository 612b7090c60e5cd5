package fiber

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type wakeReason int

const (
	wakeResume wakeReason = iota
	wakeKill
)

// Fiber is a suspendable execution context. A Fiber created with New runs
// its entry function on a private goroutine which starts the first time the
// fiber is resumed; a Fiber created with Bootstrap stands for the goroutine
// that called it.
//
// Fibers do not synchronize with each other beyond the handoff itself: the
// caller must ensure that Switch, Handoff and Kill are only invoked by the
// fiber that currently holds control, which is exactly what a scheduler
// critical section guarantees.
type Fiber struct {
	entry     func()
	wake      chan wakeReason
	done      chan struct{}
	doneOnce  sync.Once
	started   bool
	bootstrap bool
	killed    atomic.Bool
}

// New creates a fiber that begins executing entry when first resumed.
func New(entry func()) *Fiber {
	return &Fiber{
		entry: entry,
		wake:  make(chan wakeReason, 1),
		done:  make(chan struct{}),
	}
}

// Bootstrap creates a fiber for the calling goroutine, which is already
// executing and has no entry function.
func Bootstrap() *Fiber {
	return &Fiber{
		wake:      make(chan wakeReason, 1),
		done:      make(chan struct{}),
		started:   true,
		bootstrap: true,
	}
}

// Switch transfers control to the fiber to and suspends f until another
// fiber resumes it. It must be called from f's own goroutine. If f is killed
// instead of resumed, Switch does not return: the goroutine exits through
// runtime.Goexit, running its deferred calls.
func (f *Fiber) Switch(to *Fiber) {
	to.resume()
	if <-f.wake == wakeKill {
		runtime.Goexit()
	}
}

// Handoff transfers control to the fiber to without suspending f. The
// caller's goroutine is expected to finish right after.
func (f *Fiber) Handoff(to *Fiber) {
	to.resume()
}

// Kill discards a suspended fiber. A fiber that never ran is released at
// once. A suspended fiber's goroutine is woken to exit, and Kill waits until
// it has finished unwinding, except for a bootstrap fiber whose goroutine is
// not owned by the package.
//
// Kill must not be used on the fiber currently holding control.
func (f *Fiber) Kill() {
	if !f.killed.CompareAndSwap(false, true) {
		return
	}
	if !f.started {
		f.finish()
		return
	}
	f.wake <- wakeKill
	if !f.bootstrap {
		<-f.done
	}
}

// Killed reports whether Kill was called on f.
func (f *Fiber) Killed() bool {
	return f.killed.Load()
}

// Done is closed once the goroutine behind a non-bootstrap fiber has exited,
// or once a never-started fiber is killed.
func (f *Fiber) Done() <-chan struct{} {
	return f.done
}

func (f *Fiber) resume() {
	if !f.started {
		f.started = true
		go f.run()
		return
	}
	f.wake <- wakeResume
}

func (f *Fiber) run() {
	defer f.finish()
	f.entry()
}

func (f *Fiber) finish() {
	f.doneOnce.Do(func() { close(f.done) })
}
