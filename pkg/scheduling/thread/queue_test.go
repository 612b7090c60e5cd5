package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadyQueueFIFO(t *testing.T) {
	var q ReadyQueue
	for _, id := range []int{3, 1, 2} {
		q.Push(id)
	}
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []int{3, 1, 2}, q.snapshot())

	for _, want := range []int{3, 1, 2} {
		id, ok := q.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, id)
	}

	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestReadyQueueRemove(t *testing.T) {
	var q ReadyQueue
	for _, id := range []int{0, 1, 2, 3} {
		q.Push(id)
	}

	assert.True(t, q.Remove(2))
	assert.False(t, q.Remove(2))
	assert.False(t, q.contains(2))
	assert.True(t, q.contains(3))
	assert.Equal(t, []int{0, 1, 3}, q.snapshot())

	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestReadyQueueSnapshotIsCopy(t *testing.T) {
	var q ReadyQueue
	q.Push(1)
	ids := q.snapshot()
	ids[0] = 9
	assert.Equal(t, []int{1}, q.snapshot())
}

// contains reports whether id is queued.
func (q *ReadyQueue) contains(id int) bool {
	for _, v := range q.ids {
		if v == id {
			return true
		}
	}
	return false
}

// snapshot returns a copy of the queue contents, front first.
func (q *ReadyQueue) snapshot() []int {
	return append([]int(nil), q.ids...)
}
