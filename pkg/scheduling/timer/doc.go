/*
Package timer provides the quantum timers that drive scheduler preemption.

A Timer arms a periodic expiry, rearms it for a full quantum after every
dispatch and disarms it at teardown. Three implementations are provided:

  - Ticker: wall-clock time via time.AfterFunc. The default.
  - Virtual: process CPU time via ITIMER_VIRTUAL and SIGVTALRM (linux only).
  - Manual: expires only when Expire is called. Used by deterministic tests.

Any of them can be passed as scheduler.Config.Timer:

	s, err := scheduler.InitWithConfig(scheduler.Config{
		Quantum: 5 * time.Millisecond,
		Timer:   timer.NewVirtual(),
	})
*/
package timer
