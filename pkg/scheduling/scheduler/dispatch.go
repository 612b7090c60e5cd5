package scheduler

import (
	"runtime/debug"

	"github.com/vnykmshr/uthreads/pkg/scheduling/thread"
)

// reason records why the running thread gave up the CPU.
type reason int

const (
	reasonExpired reason = iota
	reasonYielded
	reasonBlocked
	reasonSleeping
	reasonTerminated
)

func (r reason) String() string {
	switch r {
	case reasonExpired:
		return "expired"
	case reasonYielded:
		return "yielded"
	case reasonBlocked:
		return "blocked"
	case reasonSleeping:
		return "sleeping"
	case reasonTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// dispatch ends the running thread's quantum and switches to the next
// thread. It is called by the running thread with the mask held, and
// returns with the mask held once that thread is resumed.
func (s *Scheduler) dispatch(r reason) {
	prev := s.threads.Get(s.current)
	next := s.schedule(prev, r)
	if next != prev {
		prev.Context().Switch(next.Context())
	}
	s.reap()
}

// schedule starts a new quantum and picks the thread to run it.
func (s *Scheduler) schedule(prev *thread.Thread, r reason) *thread.Thread {
	s.totalQuanta++

	s.threads.Each(func(t *thread.Thread) {
		if t.State() == thread.Sleeping && t.WakeQuantum() <= s.totalQuanta {
			t.SetState(thread.Ready)
			s.ready.Push(t.ID())
			s.logger.Debug().Int("tid", t.ID()).Msg("thread woke up")
		}
	})

	if prev.State() == thread.Running && prev.ID() != s.pendingDeletion {
		prev.SetState(thread.Ready)
		s.ready.Push(prev.ID())
	}

	id, ok := s.ready.Pop()
	if !ok {
		// Thread 0 can neither block nor sleep, so it is always queued here.
		panic("uthreads: ready queue empty during dispatch")
	}
	next := s.threads.Get(id)
	next.MarkRunning()
	s.current = id

	if err := s.timer.Reset(); err != nil {
		s.fail(err)
	}
	s.preempt.Store(false)

	s.logger.Trace().
		Int("from", prev.ID()).
		Int("to", id).
		Stringer("reason", r).
		Int("total_quanta", s.totalQuanta).
		Msg("dispatch")

	if m := s.metrics.Load(); m != nil {
		m.Quanta.WithLabelValues(s.name).Inc()
		if next != prev {
			m.ContextSwitches.WithLabelValues(s.name).Inc()
		}
	}
	s.observe()

	return next
}

// reap releases a thread that terminated itself during the previous
// dispatch. It runs on the thread that dispatch resumed.
func (s *Scheduler) reap() {
	if s.pendingDeletion == noThread {
		return
	}

	tid := s.pendingDeletion
	s.pendingDeletion = noThread
	s.threads.Remove(tid)
	s.ready.Remove(tid)

	s.logger.Debug().Int("tid", tid).Msg("thread terminated")
	if m := s.metrics.Load(); m != nil {
		m.ThreadsTerminated.WithLabelValues(s.name).Inc()
	}
	s.observe()
}

// run is the body of every spawned thread. Control arrives from a dispatch
// that still holds the mask.
func (s *Scheduler) run(t *thread.Thread, entry func()) {
	s.reap()
	s.mu.Unlock()

	defer s.retire(t)
	entry()
}

// retire terminates a thread whose entry function returned, panicked or
// called Terminate on itself, and hands the CPU to the next thread.
func (s *Scheduler) retire(t *thread.Thread) {
	r := recover()
	if t.Context().Killed() {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if r != nil {
		s.logger.Error().
			Int("tid", t.ID()).
			Interface("panic", r).
			Bytes("stack", debug.Stack()).
			Msg("thread panicked")
		if m := s.metrics.Load(); m != nil {
			m.ThreadsPanicked.WithLabelValues(s.name).Inc()
		}
	}

	s.pendingDeletion = t.ID()
	next := s.schedule(t, reasonTerminated)
	// The mask now belongs to next.
	t.Context().Handoff(next.Context())
}

// onQuantumExpired is the timer callback. It may run on any goroutine and
// only marks the expiry; the running thread delivers it when it leaves its
// next critical section.
func (s *Scheduler) onQuantumExpired() {
	s.preempt.Store(true)
	if m := s.metrics.Load(); m != nil {
		m.QuantumExpiries.WithLabelValues(s.name).Inc()
	}
}

// teardown stops the timer and discards every thread but self. The caller
// holds the mask.
func (s *Scheduler) teardown(self *thread.Thread) {
	if err := s.timer.Stop(); err != nil {
		s.logger.Error().Err(err).Msg("failed to stop quantum timer")
	}

	s.closed = true
	s.threads.Each(func(t *thread.Thread) {
		if t != self {
			t.Context().Kill()
		}
	})
	s.threads.Clear()
	s.ready.Clear()
	s.pendingDeletion = noThread
	close(s.done)

	s.logger.Info().
		Int("by", self.ID()).
		Int("total_quanta", s.totalQuanta).
		Msg("scheduler terminated")
	s.observe()
}

// observe refreshes the occupancy gauges. The caller holds the mask.
func (s *Scheduler) observe() {
	m := s.metrics.Load()
	if m == nil {
		return
	}

	counts := make(map[thread.State]int, len(thread.States))
	s.threads.Each(func(t *thread.Thread) {
		counts[t.State()]++
	})
	for _, st := range thread.States {
		m.Threads.WithLabelValues(s.name, st.String()).Set(float64(counts[st]))
	}
	m.ReadyQueueLength.WithLabelValues(s.name).Set(float64(s.ready.Len()))
}
