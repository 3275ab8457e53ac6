package search

// IDKey is a queue entry: an id and its key.
type IDKey struct {
	ID  uint32
	Key uint32
}

const notQueued = ^uint32(0)

// MinIDQueue is a 4-ary min-heap over ids in [0, n) that supports
// decrease-key. Each id is in the queue at most once; pos tracks where.
//
// Ties between equal keys are broken by heap position, which depends only
// on the sequence of operations, so identical runs pop in identical order.
type MinIDQueue struct {
	heap []IDKey
	pos  []uint32
}

// NewMinIDQueue returns an empty queue for ids in [0, n).
func NewMinIDQueue(n uint32) *MinIDQueue {
	pos := make([]uint32, n)
	for i := range pos {
		pos[i] = notQueued
	}
	return &MinIDQueue{heap: make([]IDKey, 0, 256), pos: pos}
}

func (q *MinIDQueue) Len() int { return len(q.heap) }
func (q *MinIDQueue) Empty() bool { return len(q.heap) == 0 }

// Contains reports whether id is currently queued.
func (q *MinIDQueue) Contains(id uint32) bool {
	return q.pos[id] != notQueued
}

// Key returns the key of a queued id.
func (q *MinIDQueue) Key(id uint32) uint32 {
	return q.heap[q.pos[id]].Key
}

// Peek returns the minimum entry without removing it. The queue must not be
// empty.
func (q *MinIDQueue) Peek() IDKey {
	return q.heap[0]
}

// Push inserts id, which must not be queued yet.
func (q *MinIDQueue) Push(id, key uint32) {
	i := uint32(len(q.heap))
	q.heap = append(q.heap, IDKey{ID: id, Key: key})
	q.pos[id] = i
	q.siftUp(i)
}

// DecreaseKey lowers the key of a queued id. It returns false and leaves
// the queue untouched unless key is strictly smaller than the current key.
func (q *MinIDQueue) DecreaseKey(id, key uint32) bool {
	i := q.pos[id]
	if key >= q.heap[i].Key {
		return false
	}
	q.heap[i].Key = key
	q.siftUp(i)
	return true
}

// Pop removes and returns the entry with the smallest key. The queue must
// not be empty.
func (q *MinIDQueue) Pop() IDKey {
	top := q.heap[0]
	q.pos[top.ID] = notQueued

	last := len(q.heap) - 1
	if last > 0 {
		q.heap[0] = q.heap[last]
		q.pos[q.heap[0].ID] = 0
	}
	q.heap = q.heap[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return top
}

// Clear empties the queue in time proportional to its size.
func (q *MinIDQueue) Clear() {
	for _, e := range q.heap {
		q.pos[e.ID] = notQueued
	}
	q.heap = q.heap[:0]
}

func (q *MinIDQueue) siftUp(i uint32) {
	e := q.heap[i]
	for i > 0 {
		parent := (i - 1) / 4
		if q.heap[parent].Key <= e.Key {
			break
		}
		q.heap[i] = q.heap[parent]
		q.pos[q.heap[i].ID] = i
		i = parent
	}
	q.heap[i] = e
	q.pos[e.ID] = i
}

func (q *MinIDQueue) siftDown(i uint32) {
	n := uint32(len(q.heap))
	e := q.heap[i]
	for {
		first := 4*i + 1
		if first >= n {
			break
		}
		smallest := first
		for c := first + 1; c < first+4 && c < n; c++ {
			if q.heap[c].Key < q.heap[smallest].Key {
				smallest = c
			}
		}
		if q.heap[smallest].Key >= e.Key {
			break
		}
		q.heap[i] = q.heap[smallest]
		q.pos[q.heap[i].ID] = i
		i = smallest
	}
	q.heap[i] = e
	q.pos[e.ID] = i
}
