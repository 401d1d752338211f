package container

import "iter"

// Node is an element of a singly linked List. A node owns its payload and
// its next link; the list owns the chain starting at its head.
type Node[T any] struct {
	value T
	next  *Node[T]
	list  *List[T]
}

// Value returns the payload.
func (n *Node[T]) Value() T { return n.value }

// Next returns the following node, or nil at the tail or when detached.
func (n *Node[T]) Next() *Node[T] {
	if n.list == nil {
		return nil
	}

	return n.next
}

// List is a singly linked list with head and tail references. Insertion and
// removal after a known node are O(1); positional access is O(n).
type List[T any] struct {
	head *Node[T]
	tail *Node[T]
	n    int
	cmp  func(a, b T) int
	g    guard
}

// NewList returns an empty list. cmp is used by Remove and Lookup.
func NewList[T any](cmp func(a, b T) int) *List[T] {
	return &List[T]{cmp: cmp}
}

func (l *List[T]) Len() int { return l.n }

// Front returns the head node, or nil if the list is empty.
func (l *List[T]) Front() *Node[T] { return l.head }

// Back returns the tail node, or nil if the list is empty.
func (l *List[T]) Back() *Node[T] { return l.tail }

// PeekFront returns the head value without removing it.
func (l *List[T]) PeekFront() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}

	return l.head.value, true
}

// PushFront inserts v at the head.
func (l *List[T]) PushFront(v T) *Node[T] {
	nd := &Node[T]{value: v, next: l.head, list: l}
	l.head = nd
	if l.tail == nil {
		l.tail = nd
	}

	l.n++
	l.g.touch()

	return nd
}

// PushBack appends v at the tail.
func (l *List[T]) PushBack(v T) *Node[T] {
	nd := &Node[T]{value: v, list: l}
	if l.tail == nil {
		l.head = nd
	} else {
		l.tail.next = nd
	}

	l.tail = nd
	l.n++
	l.g.touch()

	return nd
}

// PopFront removes the head and returns its payload.
func (l *List[T]) PopFront() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}

	return l.unlink(nil, l.head), true
}

// InsertAfter places v directly after at.
func (l *List[T]) InsertAfter(at *Node[T], v T) (*Node[T], error) {
	if at == nil || at.list != l {
		return nil, ErrForeignNode
	}

	nd := &Node[T]{value: v, next: at.next, list: l}
	at.next = nd
	if l.tail == at {
		l.tail = nd
	}

	l.n++
	l.g.touch()

	return nd, nil
}

// RemoveAfter unlinks the node following at and returns its payload.
// It reports false when at is the tail.
func (l *List[T]) RemoveAfter(at *Node[T]) (T, bool, error) {
	var zero T
	if at == nil || at.list != l {
		return zero, false, ErrForeignNode
	}

	if at.next == nil {
		return zero, false, nil
	}

	return l.unlink(at, at.next), true, nil
}

// At returns the value at position i.
func (l *List[T]) At(i int) (T, bool) {
	if i < 0 || i >= l.n {
		var zero T
		return zero, false
	}

	nd := l.head
	for ; i > 0; i-- {
		nd = nd.next
	}

	return nd.value, true
}

// Insert appends v. Lists are unbounded, so it never fails.
func (l *List[T]) Insert(v T) error {
	l.PushBack(v)

	return nil
}

func (l *List[T]) Remove(key T) (T, bool) {
	var prev *Node[T]
	for nd := l.head; nd != nil; prev, nd = nd, nd.next {
		if l.cmp(nd.value, key) == 0 {
			return l.unlink(prev, nd), true
		}
	}

	var zero T
	return zero, false
}

func (l *List[T]) Lookup(key T) (T, bool) {
	for nd := l.head; nd != nil; nd = nd.next {
		if l.cmp(nd.value, key) == 0 {
			return nd.value, true
		}
	}

	var zero T
	return zero, false
}

func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := l.g.mods
		for nd := l.head; nd != nil; nd = nd.next {
			if !yield(nd.value) {
				return
			}
			l.g.check(start)
		}
	}
}

// unlink removes nd, whose predecessor is prev (nil for the head), clears
// its links and hands its payload back.
func (l *List[T]) unlink(prev, nd *Node[T]) T {
	if prev == nil {
		l.head = nd.next
	} else {
		prev.next = nd.next
	}

	if l.tail == nd {
		l.tail = prev
	}

	v := nd.value

	var zero T
	nd.value = zero
	nd.next = nil
	nd.list = nil

	l.n--
	l.g.touch()

	return v
}
