package thread

// ReadyQueue is the FIFO of READY thread ids. Its order is the scheduling
// order.
type ReadyQueue struct {
	ids []int
}

// Push appends id to the back of the queue.
func (q *ReadyQueue) Push(id int) {
	q.ids = append(q.ids, id)
}

// Pop removes and returns the front id. ok is false when the queue is empty.
func (q *ReadyQueue) Pop() (id int, ok bool) {
	if len(q.ids) == 0 {
		return 0, false
	}
	id = q.ids[0]
	q.ids = q.ids[1:]
	return id, true
}

// Remove deletes id from the queue, preserving the order of the rest.
// It reports whether id was present.
func (q *ReadyQueue) Remove(id int) bool {
	for i, v := range q.ids {
		if v == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (q *ReadyQueue) Len() int { return len(q.ids) }

// Clear empties the queue.
func (q *ReadyQueue) Clear() {
	q.ids = nil
}
