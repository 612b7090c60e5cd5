/*
Package fiber provides the execution-context primitive underneath the uthreads
scheduler: suspend the current logical thread with its full stack preserved and
later resume it exactly where it stopped.

Each fiber is backed by a goroutine that is parked on a private wake channel
whenever the fiber does not hold control. A switch resumes the target and parks
the caller, so at most one fiber executes user code at any instant:

	main := fiber.Bootstrap()
	worker := fiber.New(func() {
		fmt.Println("worker runs")
		worker.Switch(main) // suspend, give control back
		fmt.Println("worker resumed")
	})

	main.Switch(worker) // start worker, suspend main
	main.Switch(worker) // resume worker where it stopped

A fiber that is killed while suspended unwinds through runtime.Goexit, so its
deferred calls run before Kill returns.
*/
package fiber
