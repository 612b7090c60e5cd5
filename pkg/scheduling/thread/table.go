package thread

// Table is the registry of living threads, indexed by id. It owns id
// allocation: new ids are the smallest unused integer >= 1, so an id is
// recycled as soon as its thread is removed.
type Table struct {
	slots []*Thread
	count int
}

// NewTable creates a table holding at most capacity threads, thread 0 included.
func NewTable(capacity int) *Table {
	return &Table{slots: make([]*Thread, capacity)}
}

// Capacity is the maximum number of living threads.
func (tb *Table) Capacity() int { return len(tb.slots) }

// Len is the number of living threads.
func (tb *Table) Len() int { return tb.count }

// Full reports whether no further thread can be added.
func (tb *Table) Full() bool { return tb.count >= len(tb.slots) }

// Get returns the thread with the given id, or nil.
func (tb *Table) Get(id int) *Thread {
	if id < 0 || id >= len(tb.slots) {
		return nil
	}
	return tb.slots[id]
}

// NextID returns the smallest free id >= 1, or -1 when the table is full.
func (tb *Table) NextID() int {
	for id := BootstrapID + 1; id < len(tb.slots); id++ {
		if tb.slots[id] == nil {
			return id
		}
	}
	return -1
}

// Put stores t in its id's slot. The slot must be free.
func (tb *Table) Put(t *Thread) {
	if tb.slots[t.id] == nil {
		tb.count++
	}
	tb.slots[t.id] = t
}

// Remove deletes the thread with the given id and returns it, or nil.
func (tb *Table) Remove(id int) *Thread {
	t := tb.Get(id)
	if t != nil {
		tb.slots[id] = nil
		tb.count--
	}
	return t
}

// Each calls fn for every living thread in ascending id order.
func (tb *Table) Each(fn func(*Thread)) {
	for _, t := range tb.slots {
		if t != nil {
			fn(t)
		}
	}
}

// Clear removes every thread.
func (tb *Table) Clear() {
	clear(tb.slots)
	tb.count = 0
}
