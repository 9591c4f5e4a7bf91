package engine

// ReadyQueue holds processes that are eligible to run, in insertion order.
// Index 0 is the head.
type ReadyQueue struct {
	items []*Process
}

// Len returns the number of queued processes.
func (q *ReadyQueue) Len() int {
	return len(q.items)
}

// At returns the process at position i.
func (q *ReadyQueue) At(i int) *Process {
	return q.items[i]
}

// PushBack appends p at the tail.
func (q *ReadyQueue) PushBack(p *Process) {
	q.items = append(q.items, p)
}

// RemoveAt removes and returns the process at position i, preserving the order
// of the remaining entries.
func (q *ReadyQueue) RemoveAt(i int) *Process {
	p := q.items[i]
	copy(q.items[i:], q.items[i+1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	return p
}

// Remove drops the process with the given id. It returns false if it was not queued.
func (q *ReadyQueue) Remove(id string) bool {
	for i, p := range q.items {
		if p.ID == id {
			q.RemoveAt(i)
			return true
		}
	}
	return false
}

// IDs returns the queued process ids, head first.
func (q *ReadyQueue) IDs() []string {
	ids := make([]string, len(q.items))
	for i, p := range q.items {
		ids[i] = p.ID
	}
	return ids
}

// Clear empties the queue.
func (q *ReadyQueue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}
