package ch

// minHeap is a concrete-typed binary min-heap for the upward searches.
// Entries are not decreased in place; stale entries are skipped on pop.
type minHeap struct {
	items []heapItem
}

type heapItem struct {
	node uint32
	dist uint32
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(node, dist uint32) {
	h.items = append(h.items, heapItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() heapItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

// PeekDist returns the smallest key, or maxUint32 if the heap is empty.
func (h *minHeap) PeekDist() uint32 {
	if len(h.items) == 0 {
		return maxUint32
	}
	return h.items[0].dist
}

func (h *minHeap) Reset() {
	h.items = h.items[:0]
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].dist >= h.items[parent].dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].dist < h.items[smallest].dist {
			smallest = left
		}
		if right < n && h.items[right].dist < h.items[smallest].dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
