// Package pqueue implements the priority queues the query engine uses:
// a min-heap of node candidates for best-first traversal, and a bounded
// max-heap of the current k best kNN results. Both are the same
// underlying Heap keyed by float32 priority / int32 value, switched
// between ascending and descending order.
package pqueue

import "container/heap"

// Item is one (value, priority) pair stored in a Heap.
type Item struct {
	Value    int32
	Priority float32
}

// Heap is a binary heap over Items, orderable ascending (min-heap, for
// best-first node expansion) or descending (max-heap, for bounded kNN
// result retention).
type Heap struct {
	items []Item
	desc  bool
}

// New creates an empty Heap. desc selects a max-heap (true, top is the
// greatest priority) or a min-heap (false, top is the smallest).
func New(desc bool) *Heap {
	return &Heap{desc: desc}
}

// Len returns the number of items currently stored.
func (h *Heap) Len() int { return len(h.items) }

func (h *Heap) less(i, j int) bool {
	if h.desc {
		return h.items[i].Priority > h.items[j].Priority
	}
	return h.items[i].Priority < h.items[j].Priority
}

// Insert adds (value, priority) to the heap.
func (h *Heap) Insert(value int32, priority float32) {
	heap.Push((*heapAdapter)(h), Item{Value: value, Priority: priority})
}

// Pop removes and returns the top item (smallest priority for a
// min-heap, greatest for a max-heap). ok is false on an empty heap.
func (h *Heap) Pop() (item Item, ok bool) {
	if len(h.items) == 0 {
		return Item{}, false
	}
	return heap.Pop((*heapAdapter)(h)).(Item), true
}

// Peek returns the top item without removing it.
func (h *Heap) Peek() (item Item, ok bool) {
	if len(h.items) == 0 {
		return Item{}, false
	}
	return h.items[0], true
}

// SetOrder flips the ordering and restores the heap property in O(n) via
// bottom-up sift-down, rather than re-inserting every element. This is
// the corrected counterpart of the source's setSortOrder: that one's
// sift-up helper (promote) never advanced its index and was a dead loop
// on insert; SetOrder here only ever sifts down, which is the operation
// the source's own setSortOrder used, and the dead bug accordingly isn't
// reachable from this path.
func (h *Heap) SetOrder(desc bool) {
	h.desc = desc
	n := len(h.items)
	for i := n/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
}

func (h *Heap) siftDown(i int) {
	n := len(h.items)
	for {
		l, r := 2*i+1, 2*i+2
		best := i
		if l < n && h.less(l, best) {
			best = l
		}
		if r < n && h.less(r, best) {
			best = r
		}
		if best == i {
			return
		}
		h.items[i], h.items[best] = h.items[best], h.items[i]
		i = best
	}
}

// heapAdapter satisfies container/heap.Interface over a *Heap's backing
// slice without exposing Push/Pop as part of Heap's own public API.
type heapAdapter Heap

func (a *heapAdapter) Len() int           { return (*Heap)(a).Len() }
func (a *heapAdapter) Less(i, j int) bool { return (*Heap)(a).less(i, j) }
func (a *heapAdapter) Swap(i, j int)      { a.items[i], a.items[j] = a.items[j], a.items[i] }

func (a *heapAdapter) Push(x interface{}) {
	a.items = append(a.items, x.(Item))
}

func (a *heapAdapter) Pop() interface{} {
	old := a.items
	n := len(old)
	item := old[n-1]
	a.items = old[:n-1]
	return item
}
