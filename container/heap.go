package container

import "iter"

// Order selects which end of the ordering a Heap surfaces first.
type Order int

const (
	MinFirst Order = iota
	MaxFirst
)

func (o Order) String() string {
	if o == MaxFirst {
		return "max"
	}

	return "min"
}

// Heap is an array-backed binary heap. Push and Pop are O(log n); the
// heap-order invariant holds after every mutation.
type Heap[T any] struct {
	data     []T
	cmp      func(a, b T) int
	order    Order
	capacity int
	fixed    bool
	g        guard
}

// NewHeap returns an empty heap ordered by cmp. With MinFirst the smallest
// element is on top; with MaxFirst the largest.
func NewHeap[T any](cmp func(a, b T) int, order Order, opts ...Option) *Heap[T] {
	o := buildOptions(opts)

	return &Heap[T]{
		data:     make([]T, 0, o.capacity),
		cmp:      cmp,
		order:    order,
		capacity: o.capacity,
		fixed:    o.fixed,
	}
}

func (h *Heap[T]) Len() int { return len(h.data) }

func (h *Heap[T]) Order() Order { return h.order }

// Push adds v.
func (h *Heap[T]) Push(v T) error {
	if h.fixed && len(h.data) >= h.capacity {
		return &CapacityError{Kind: "heap", Capacity: h.capacity}
	}

	h.data = append(h.data, v)
	SiftUp(Slice[T](h.data), len(h.data)-1, h.before)
	h.g.touch()

	return nil
}

// Pop removes and returns the top element.
func (h *Heap[T]) Pop() (T, bool) {
	if len(h.data) == 0 {
		var zero T
		return zero, false
	}

	return h.removeAt(0), true
}

// Peek returns the top element without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if len(h.data) == 0 {
		var zero T
		return zero, false
	}

	return h.data[0], true
}

func (h *Heap[T]) Insert(v T) error { return h.Push(v) }

// Remove deletes an element equal to key. Locating it is a linear scan;
// restoring the invariant is O(log n).
func (h *Heap[T]) Remove(key T) (T, bool) {
	i := h.index(key)
	if i < 0 {
		var zero T
		return zero, false
	}

	return h.removeAt(i), true
}

func (h *Heap[T]) Lookup(key T) (T, bool) {
	i := h.index(key)
	if i < 0 {
		var zero T
		return zero, false
	}

	return h.data[i], true
}

// All iterates in backing-array (level) order, not sorted order.
func (h *Heap[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := h.g.mods
		n := len(h.data)
		for i := 0; i < n; i++ {
			if !yield(h.data[i]) {
				return
			}
			h.g.check(start)
		}
	}
}

func (h *Heap[T]) before(a, b T) bool {
	if h.order == MaxFirst {
		return h.cmp(a, b) > 0
	}

	return h.cmp(a, b) < 0
}

func (h *Heap[T]) index(key T) int {
	for i, v := range h.data {
		if h.cmp(v, key) == 0 {
			return i
		}
	}

	return -1
}

func (h *Heap[T]) removeAt(i int) T {
	last := len(h.data) - 1
	v := h.data[i]

	h.data[i] = h.data[last]

	var zero T
	h.data[last] = zero
	h.data = h.data[:last]

	if i < last {
		data := Slice[T](h.data)
		if !SiftDown(data, i, last, h.before) {
			SiftUp(data, i, h.before)
		}
	}

	h.g.touch()

	return v
}

// SiftUp moves the element at i towards the root until its parent is not
// ordered after it.
func SiftUp[T any](data Indexable[T], i int, before func(a, b T) bool) {
	for i > 0 {
		parent := (i - 1) / 2
		if !before(data.At(i), data.At(parent)) {
			return
		}

		data.Swap(i, parent)
		i = parent
	}
}

// SiftDown moves the element at i towards the leaves within data[:n] until
// neither child is ordered before it. It reports whether the element moved.
func SiftDown[T any](data Indexable[T], i, n int, before func(a, b T) bool) bool {
	start := i
	for {
		child := 2*i + 1
		if child >= n || child < 0 {
			break
		}

		if r := child + 1; r < n && before(data.At(r), data.At(child)) {
			child = r
		}

		if !before(data.At(child), data.At(i)) {
			break
		}

		data.Swap(i, child)
		i = child
	}

	return i > start
}

// Heapify arranges data[:n] into a heap under before in O(n).
func Heapify[T any](data Indexable[T], n int, before func(a, b T) bool) {
	for i := n/2 - 1; i >= 0; i-- {
		SiftDown(data, i, n, before)
	}
}
