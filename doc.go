/*
Package uthreads provides user-level threads for Go programs, multiplexed
onto a single goroutine at a time by a preemptive round-robin scheduler.

Scheduling (pkg/scheduling):
  - scheduler: Init, Spawn, Terminate, Block, Resume, Sleep and queries
  - thread: Thread control blocks, the thread table and the ready queue
  - timer: Quantum timers (wall clock, process CPU time, manual)
  - fiber: Suspendable execution contexts

Support (pkg):
  - metrics: Prometheus instrumentation
  - common/errors: Sentinel, validation and operation errors

Example usage:

	import (
		"github.com/vnykmshr/uthreads/pkg/scheduling/scheduler"
	)

	s, err := scheduler.Init(10000) // 10ms quanta
	if err != nil {
		log.Fatal(err)
	}

	s.Spawn(func() {
		for {
			doWork()
			s.Checkpoint()
		}
	})
*/
package uthreads
