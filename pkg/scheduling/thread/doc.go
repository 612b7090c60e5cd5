// Package thread holds the scheduler's bookkeeping types: the thread control
// block, the id-indexed thread table and the FIFO ready queue.
//
// None of these types are safe for concurrent use. They are owned by a
// scheduler and mutated only inside its critical section.
package thread
