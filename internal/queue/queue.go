// Package queue implements a value-based binary heap ordered by a less func.
package queue

// PriorityQueue is a binary heap holding values of type T.
// The element for which less reports true against every other element is on top.
// It does NOT implement container/heap to avoid interface overhead.
type PriorityQueue[T any] struct {
	less  func(a, b T) bool
	items []T
}

// New creates an empty queue with the given initial capacity.
func New[T any](capacity int, less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		less:  less,
		items: make([]T, 0, capacity),
	}
}

// Len returns the number of elements in the queue.
func (pq *PriorityQueue[T]) Len() int { return len(pq.items) }

// Top returns the top element without removing it.
func (pq *PriorityQueue[T]) Top() (T, bool) {
	if len(pq.items) == 0 {
		var zero T
		return zero, false
	}
	return pq.items[0], true
}

// Push inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue[T]) Push(item T) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// Pop removes and returns the top element while maintaining the heap invariant.
func (pq *PriorityQueue[T]) Pop() (T, bool) {
	n := len(pq.items)
	if n == 0 {
		var zero T
		return zero, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	var zero T
	pq.items[n-1] = zero // Zero out for GC
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// ReplaceTop overwrites the top element and restores the heap invariant.
// It is cheaper than Pop followed by Push.
func (pq *PriorityQueue[T]) ReplaceTop(item T) {
	if len(pq.items) == 0 {
		pq.Push(item)
		return
	}
	pq.items[0] = item
	pq.siftDown(0)
}

// Reset clears the queue for reuse.
func (pq *PriorityQueue[T]) Reset() {
	clear(pq.items)
	pq.items = pq.items[:0]
}

func (pq *PriorityQueue[T]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(pq.items[i], pq.items[p]) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue[T]) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.less(pq.items[r], pq.items[l]) {
			best = r
		}
		if !pq.less(pq.items[best], pq.items[i]) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}
