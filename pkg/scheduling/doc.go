/*
Package scheduling groups the building blocks of the user-level thread
scheduler:

  - scheduler: The public API and the dispatcher
  - thread: Thread control blocks, the thread table and the ready queue
  - timer: Quantum timers that raise expiry events
  - fiber: Execution contexts that can be suspended and resumed

Quantum Timers:

A timer calls its expiry function once per quantum until it is reset or
stopped. The dispatcher resets it whenever a new quantum starts, so a
thread that gives up the CPU early does not shorten the next thread's
quantum.

	tm := timer.NewTicker()
	tm.Start(10*time.Millisecond, func() { fmt.Println("quantum expired") })
	defer tm.Stop()

Thread Bookkeeping:

The thread table maps ids to control blocks and hands out the smallest
free id. The ready queue is a FIFO of ids; the dispatcher pops its head at
the start of every quantum.

	table := thread.NewTable(8)
	table.Put(thread.NewBootstrap())
	id := table.NextID() // 1

Execution Contexts:

Each spawned thread runs on its own goroutine, but only the goroutine
holding control executes; Switch hands control to another fiber and parks
the caller until it is resumed.
*/
package scheduling
