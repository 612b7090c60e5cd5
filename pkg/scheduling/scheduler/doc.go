/*
Package scheduler implements a preemptive round-robin scheduler for
user-level threads.

A Scheduler owns a table of threads, a FIFO ready queue and a quantum
timer. The goroutine that calls Init becomes thread 0; every other thread
is created with Spawn and runs on its own goroutine, but only one thread
holds the CPU at a time. Control moves between threads only through the
dispatcher, at the end of a quantum or when the running thread yields,
blocks, sleeps or terminates.

Basic Usage:

	s, err := scheduler.Init(10000) // 10ms quanta
	if err != nil {
		log.Fatal(err)
	}

	tid, _ := s.Spawn(func() {
		for i := 0; i < 3; i++ {
			fmt.Println("worker", s.GetTid(), "quantum", s.GetTotalQuantums())
			s.Yield()
		}
	})

	for {
		if _, err := s.GetQuantums(tid); err != nil {
			break // the worker returned and was reaped
		}
		s.Yield()
	}
	s.Terminate(0) // exits the process

Thread Lifecycle:

Threads are READY, RUNNING, BLOCKED or SLEEPING. Block and Resume move a
thread in and out of BLOCKED; Sleep puts the calling thread to sleep for a
number of quanta after which the dispatcher wakes it. Thread 0 can neither
block nor sleep, so the ready queue is never empty when a new quantum
starts. Ids are reused: Spawn always returns the smallest free id.

A thread terminates when its entry function returns, when it panics (the
panic is logged and the thread reaped) or when Terminate is called for it.
Terminating thread 0 stops the timer, discards every thread and calls
Config.Exit(0), which is os.Exit by default.

Preemption:

The quantum timer only marks an expiry as pending. The running thread
delivers it the next time it leaves a scheduler operation, or when it calls
Checkpoint. A thread that never calls into the scheduler keeps the CPU.

	s.Spawn(func() {
		for _, item := range work {
			process(item)
			s.Checkpoint()
		}
	})

Timers:

Config.Timer selects the quantum clock. timer.NewTicker measures wall-clock
time, timer.NewVirtual measures CPU time consumed by the process (Linux
only), and timer.NewManual expires only when told to, which makes dispatch
order deterministic.

	s, err := scheduler.InitWithConfig(scheduler.Config{
		Quantum:    5 * time.Millisecond,
		MaxThreads: 16,
		Timer:      timer.NewVirtual(),
		Logger:     &logger,
		Metrics:    metrics.DefaultConfig(),
	})

Error Handling:

Usage errors wrap errors.ErrNoSuchThread, errors.ErrBootstrapThread,
errors.ErrThreadSleeping, errors.ErrCapacityExceeded or a
*errors.ValidationError, and leave the scheduler unchanged. Once thread 0
has been terminated every operation fails with errors.ErrClosed. Platform
failures (the timer cannot be armed) are unrecoverable and end the
process with code 1.

Thread Safety:

Spawn, Terminate, Block, Resume, Sleep, Yield and Checkpoint must be called
from a thread of the scheduler. Queries (GetTid, GetTotalQuantums,
GetQuantums, GetTimeUntilWakeup, State, Threads) may be called from any
goroutine.
*/
package scheduler
