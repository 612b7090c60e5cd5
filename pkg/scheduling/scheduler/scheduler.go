package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	utcontext "github.com/vnykmshr/uthreads/pkg/common/context"
	uterrors "github.com/vnykmshr/uthreads/pkg/common/errors"
	"github.com/vnykmshr/uthreads/pkg/common/validation"
	"github.com/vnykmshr/uthreads/pkg/metrics"
	"github.com/vnykmshr/uthreads/pkg/scheduling/thread"
	"github.com/vnykmshr/uthreads/pkg/scheduling/timer"
)

const noThread = -1

// Scheduler multiplexes user-level threads onto the goroutine that created
// it. Exactly one thread runs at any time; the others wait in the ready
// queue, are blocked, or sleep for a number of quanta.
//
// Operations that may switch threads (Spawn, Terminate, Block, Resume,
// Sleep, Yield, Checkpoint) must be called from a thread of this scheduler.
// The remaining queries only read bookkeeping and may be called from any
// goroutine.
type Scheduler struct {
	// mu is the scheduling mask. The thread that holds it owns every field
	// below; a context switch passes it to the resumed thread.
	mu sync.Mutex

	name    string
	quantum time.Duration
	timer   timer.Timer
	logger  zerolog.Logger
	exit    func(code int)

	threads         *thread.Table
	ready           thread.ReadyQueue
	current         int
	totalQuanta     int
	pendingDeletion int
	closed          bool
	done            chan struct{}

	preempt atomic.Bool
	metrics atomic.Pointer[metrics.Registry]
}

// Init starts a scheduler with a quantum of quantumUsecs microseconds. The
// calling goroutine becomes thread 0 and starts the first quantum.
func Init(quantumUsecs int) (*Scheduler, error) {
	if err := validation.ValidatePositive(module, "quantum_usecs", quantumUsecs); err != nil {
		return nil, err
	}
	return InitWithConfig(Config{Quantum: time.Duration(quantumUsecs) * time.Microsecond})
}

// InitWithConfig starts a scheduler with custom configuration.
//
// Failing to arm the quantum timer is unrecoverable: the error is logged and
// Config.Exit is called with code 1. InitWithConfig only returns that error
// when the exit hook returns.
func InitWithConfig(cfg Config) (*Scheduler, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		name:            cfg.Name,
		quantum:         cfg.Quantum,
		timer:           cfg.Timer,
		logger:          cfg.Logger.With().Str("scheduler", cfg.Name).Logger(),
		exit:            cfg.Exit,
		threads:         thread.NewTable(cfg.MaxThreads),
		current:         thread.BootstrapID,
		totalQuanta:     1,
		pendingDeletion: noThread,
		done:            make(chan struct{}),
	}
	s.threads.Put(thread.NewBootstrap())

	if cfg.Metrics.Enabled {
		s.metrics.Store(cfg.Metrics.Resolve())
	}

	if err := s.timer.Start(s.quantum, s.onQuantumExpired); err != nil {
		err = uterrors.NewOperationError(module, "Init", fmt.Errorf("%w: %w", uterrors.ErrPlatform, err))
		s.fail(err)
		return nil, err
	}

	s.logger.Info().
		Dur("quantum", s.quantum).
		Int("max_threads", cfg.MaxThreads).
		Msg("scheduler started")

	s.mu.Lock()
	if m := s.metrics.Load(); m != nil {
		m.Quanta.WithLabelValues(s.name).Inc()
	}
	s.observe()
	s.mu.Unlock()

	return s, nil
}

// mask enters the critical section and returns the calling thread's control
// block, or nil once the scheduler is closed.
func (s *Scheduler) mask() *thread.Thread {
	s.mu.Lock()
	if s.closed {
		return nil
	}
	return s.threads.Get(s.current)
}

// unmask leaves the critical section entered by mask, first delivering a
// quantum expiry that arrived meanwhile.
func (s *Scheduler) unmask(self *thread.Thread) {
	if self != nil && self.Context().Killed() {
		// Unwinding after Terminate; the killer holds the mask.
		return
	}
	if self != nil && !s.closed && !self.Exiting &&
		s.current == self.ID() && s.preempt.Load() {
		s.dispatch(reasonExpired)
	}
	s.mu.Unlock()
}

// Spawn creates a thread that runs entry and appends it to the ready queue.
// It returns the smallest free id. When entry returns, the thread
// terminates itself.
func (s *Scheduler) Spawn(entry func()) (int, error) {
	self := s.mask()
	defer s.unmask(self)
	if self == nil {
		return noThread, s.closedError("Spawn")
	}

	if entry == nil {
		return noThread, s.reject("Spawn", noThread,
			uterrors.NewValidationError(module, "entry", nil, "cannot be nil").
				WithHint("pass the function the thread should run"))
	}
	if s.threads.Full() {
		return noThread, s.reject("Spawn", noThread,
			fmt.Errorf("%w: %d threads", uterrors.ErrCapacityExceeded, s.threads.Capacity()))
	}

	id := s.threads.NextID()
	var t *thread.Thread
	t = thread.New(id, func() { s.run(t, entry) })
	s.threads.Put(t)
	s.ready.Push(id)

	s.logger.Debug().Int("tid", id).Msg("thread spawned")
	if m := s.metrics.Load(); m != nil {
		m.ThreadsSpawned.WithLabelValues(s.name).Inc()
	}
	s.observe()

	return id, nil
}

// Terminate ends thread tid and releases its id.
//
// Terminating thread 0 tears the whole scheduler down and calls Config.Exit
// with code 0. Terminating the calling thread does not return. Deferred
// calls of the terminated thread still run, but those of a thread
// terminated by another thread must not call into the scheduler.
func (s *Scheduler) Terminate(tid int) error {
	self := s.mask()
	defer s.unmask(self)
	if self == nil {
		return s.closedError("Terminate")
	}

	if tid == thread.BootstrapID {
		s.teardown(self)
		s.exit(0)
		runtime.Goexit()
	}

	t := s.threads.Get(tid)
	if t == nil {
		return s.reject("Terminate", tid, uterrors.ErrNoSuchThread)
	}
	if t.State() == thread.Sleeping {
		return s.reject("Terminate", tid, uterrors.ErrThreadSleeping)
	}

	if t == self {
		// retire finishes the job once the thread's deferred calls have run.
		t.Exiting = true
		s.logger.Debug().Int("tid", tid).Msg("thread terminating")
		runtime.Goexit()
	}

	s.threads.Remove(tid)
	s.ready.Remove(tid)
	t.Context().Kill()

	s.logger.Debug().Int("tid", tid).Int("by", self.ID()).Msg("thread terminated")
	if m := s.metrics.Load(); m != nil {
		m.ThreadsTerminated.WithLabelValues(s.name).Inc()
	}
	s.observe()

	return nil
}

// Block moves thread tid to BLOCKED until Resume is called for it. Blocking
// a thread that is already blocked or sleeping is a no-op. A thread that
// blocks itself gives up the rest of its quantum.
func (s *Scheduler) Block(tid int) error {
	self := s.mask()
	defer s.unmask(self)
	if self == nil {
		return s.closedError("Block")
	}

	if tid == thread.BootstrapID {
		return s.reject("Block", tid, uterrors.ErrBootstrapThread)
	}
	t := s.threads.Get(tid)
	if t == nil {
		return s.reject("Block", tid, uterrors.ErrNoSuchThread)
	}

	switch t.State() {
	case thread.Blocked, thread.Sleeping:
		return nil
	}

	t.SetState(thread.Blocked)
	s.logger.Debug().Int("tid", tid).Msg("thread blocked")
	if t == self {
		s.dispatch(reasonBlocked)
		return nil
	}
	s.ready.Remove(tid)
	s.observe()

	return nil
}

// Resume moves a BLOCKED thread back to the tail of the ready queue. It is
// a no-op for threads in any other state.
func (s *Scheduler) Resume(tid int) error {
	self := s.mask()
	defer s.unmask(self)
	if self == nil {
		return s.closedError("Resume")
	}

	t := s.threads.Get(tid)
	if t == nil {
		return s.reject("Resume", tid, uterrors.ErrNoSuchThread)
	}
	if t.State() != thread.Blocked {
		return nil
	}

	t.SetState(thread.Ready)
	s.ready.Push(tid)
	s.logger.Debug().Int("tid", tid).Msg("thread resumed")
	s.observe()

	return nil
}

// Sleep suspends the calling thread for numQuantums quanta, counted from
// the current one. Thread 0 cannot sleep.
func (s *Scheduler) Sleep(numQuantums int) error {
	self := s.mask()
	defer s.unmask(self)
	if self == nil {
		return s.closedError("Sleep")
	}

	if err := validation.ValidatePositive(module, "num_quantums", numQuantums); err != nil {
		return s.reject("Sleep", self.ID(), err)
	}
	if self.ID() == thread.BootstrapID {
		return s.reject("Sleep", self.ID(), uterrors.ErrBootstrapThread)
	}

	self.SetWakeQuantum(s.totalQuanta + numQuantums)
	self.SetState(thread.Sleeping)
	s.logger.Debug().
		Int("tid", self.ID()).
		Int("wake_quantum", self.WakeQuantum()).
		Msg("thread sleeping")
	s.dispatch(reasonSleeping)

	return nil
}

// Yield gives up the rest of the calling thread's quantum.
func (s *Scheduler) Yield() error {
	self := s.mask()
	defer s.unmask(self)
	if self == nil {
		return s.closedError("Yield")
	}

	s.dispatch(reasonYielded)
	return nil
}

// Checkpoint delivers a pending quantum expiry, if any. Threads that run
// long stretches without calling the scheduler should call it regularly,
// since preemption only happens when a thread calls into the scheduler.
func (s *Scheduler) Checkpoint() {
	s.unmask(s.mask())
}

// GetTid returns the id of the running thread.
func (s *Scheduler) GetTid() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// GetTotalQuantums returns the number of quanta started since Init,
// including the first one.
func (s *Scheduler) GetTotalQuantums() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalQuanta
}

// GetQuantums returns the number of quanta thread tid has started in
// RUNNING, including the current one if it is running.
func (s *Scheduler) GetQuantums(tid int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, s.closedError("GetQuantums")
	}

	t := s.threads.Get(tid)
	if t == nil {
		return 0, s.reject("GetQuantums", tid, uterrors.ErrNoSuchThread)
	}
	return t.RunCount(), nil
}

// GetTimeUntilWakeup returns the number of quanta left before a sleeping
// thread becomes READY, or 0 if tid is not sleeping.
func (s *Scheduler) GetTimeUntilWakeup(tid int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, s.closedError("GetTimeUntilWakeup")
	}

	t := s.threads.Get(tid)
	if t == nil {
		return 0, s.reject("GetTimeUntilWakeup", tid, uterrors.ErrNoSuchThread)
	}
	if t.State() != thread.Sleeping {
		return 0, nil
	}
	return max(0, t.WakeQuantum()-s.totalQuanta), nil
}

// State returns the lifecycle state of thread tid.
func (s *Scheduler) State(tid int) (thread.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, s.closedError("State")
	}

	t := s.threads.Get(tid)
	if t == nil {
		return 0, s.reject("State", tid, uterrors.ErrNoSuchThread)
	}
	return t.State(), nil
}

// Threads returns a snapshot of every living thread in ascending id order.
func (s *Scheduler) Threads() []thread.Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]thread.Info, 0, s.threads.Len())
	s.threads.Each(func(t *thread.Thread) {
		infos = append(infos, t.Snapshot())
	})
	return infos
}

// Done is closed once thread 0 has been terminated.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until thread 0 has been terminated or ctx ends. The returned
// error wraps ctx.Err().
func (s *Scheduler) Wait(ctx context.Context) error {
	if err := utcontext.WaitClosed(ctx, s.done); err != nil {
		op := uterrors.NewOperationError(module, "Wait", err)
		if utcontext.IsTimedOut(ctx) {
			op = op.WithContext("deadline passed before thread 0 terminated")
		}
		return op
	}
	return nil
}

// Quantum returns the configured quantum length.
func (s *Scheduler) Quantum() time.Duration {
	return s.quantum
}

// EnableMetrics implements metrics.Instrumentable.
func (s *Scheduler) EnableMetrics(config metrics.Config) error {
	if !config.Enabled {
		s.DisableMetrics()
		return nil
	}
	s.metrics.Store(config.Resolve())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe()
	return nil
}

// DisableMetrics implements metrics.Instrumentable.
func (s *Scheduler) DisableMetrics() {
	s.metrics.Store(nil)
}

// MetricsEnabled implements metrics.Instrumentable.
func (s *Scheduler) MetricsEnabled() bool {
	return s.metrics.Load() != nil
}

// reject logs and counts a usage error before returning it.
func (s *Scheduler) reject(op string, tid int, cause error) error {
	err := uterrors.NewOperationError(module, op, cause)
	if tid != noThread {
		err = err.WithContext(fmt.Sprintf("tid=%d", tid))
	}

	s.logger.Debug().Str("op", op).Err(err).Msg("usage error")
	if m := s.metrics.Load(); m != nil {
		m.UsageErrors.WithLabelValues(s.name, op).Inc()
	}
	return err
}

func (s *Scheduler) closedError(op string) error {
	return uterrors.NewOperationError(module, op, uterrors.ErrClosed)
}

// fail reports an unrecoverable platform failure and ends the process.
func (s *Scheduler) fail(err error) {
	s.logger.Error().Err(err).Msg("platform failure")
	s.exit(1)
}
