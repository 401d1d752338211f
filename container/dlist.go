package container

import "iter"

// Element is a node of a doubly linked DList. next is the owning link; prev
// is a back-reference used only to walk backwards and to unlink in O(1).
type Element[T any] struct {
	value T
	next  *Element[T]
	prev  *Element[T]
	list  *DList[T]
}

func (e *Element[T]) Value() T { return e.value }

func (e *Element[T]) Next() *Element[T] {
	if e.list == nil {
		return nil
	}

	return e.next
}

func (e *Element[T]) Prev() *Element[T] {
	if e.list == nil {
		return nil
	}

	return e.prev
}

// DList is a doubly linked list. Insertion next to, and removal of, a known
// element are O(1).
type DList[T any] struct {
	head *Element[T]
	tail *Element[T]
	n    int
	cmp  func(a, b T) int
	g    guard
}

// NewDList returns an empty list. cmp is used by Remove and Lookup.
func NewDList[T any](cmp func(a, b T) int) *DList[T] {
	return &DList[T]{cmp: cmp}
}

func (l *DList[T]) Len() int { return l.n }

func (l *DList[T]) Front() *Element[T] { return l.head }

func (l *DList[T]) Back() *Element[T] { return l.tail }

func (l *DList[T]) PushFront(v T) *Element[T] {
	return l.link(&Element[T]{value: v}, nil, l.head)
}

func (l *DList[T]) PushBack(v T) *Element[T] {
	return l.link(&Element[T]{value: v}, l.tail, nil)
}

// InsertBefore places v directly before mark.
func (l *DList[T]) InsertBefore(mark *Element[T], v T) (*Element[T], error) {
	if mark == nil || mark.list != l {
		return nil, ErrForeignNode
	}

	return l.link(&Element[T]{value: v}, mark.prev, mark), nil
}

// InsertAfter places v directly after mark.
func (l *DList[T]) InsertAfter(mark *Element[T], v T) (*Element[T], error) {
	if mark == nil || mark.list != l {
		return nil, ErrForeignNode
	}

	return l.link(&Element[T]{value: v}, mark, mark.next), nil
}

// RemoveElement unlinks e and returns its payload.
func (l *DList[T]) RemoveElement(e *Element[T]) (T, error) {
	if e == nil || e.list != l {
		var zero T
		return zero, ErrForeignNode
	}

	return l.unlink(e), nil
}

func (l *DList[T]) PopFront() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}

	return l.unlink(l.head), true
}

func (l *DList[T]) PopBack() (T, bool) {
	if l.tail == nil {
		var zero T
		return zero, false
	}

	return l.unlink(l.tail), true
}

func (l *DList[T]) Insert(v T) error {
	l.PushBack(v)

	return nil
}

func (l *DList[T]) Remove(key T) (T, bool) {
	if e := l.find(key); e != nil {
		return l.unlink(e), true
	}

	var zero T
	return zero, false
}

func (l *DList[T]) Lookup(key T) (T, bool) {
	if e := l.find(key); e != nil {
		return e.value, true
	}

	var zero T
	return zero, false
}

func (l *DList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := l.g.mods
		for e := l.head; e != nil; e = e.next {
			if !yield(e.value) {
				return
			}
			l.g.check(start)
		}
	}
}

// Backward iterates from tail to head.
func (l *DList[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := l.g.mods
		for e := l.tail; e != nil; e = e.prev {
			if !yield(e.value) {
				return
			}
			l.g.check(start)
		}
	}
}

func (l *DList[T]) find(key T) *Element[T] {
	for e := l.head; e != nil; e = e.next {
		if l.cmp(e.value, key) == 0 {
			return e
		}
	}

	return nil
}

func (l *DList[T]) link(e, prev, next *Element[T]) *Element[T] {
	e.list = l
	e.prev = prev
	e.next = next

	if prev == nil {
		l.head = e
	} else {
		prev.next = e
	}

	if next == nil {
		l.tail = e
	} else {
		next.prev = e
	}

	l.n++
	l.g.touch()

	return e
}

func (l *DList[T]) unlink(e *Element[T]) T {
	if e.prev == nil {
		l.head = e.next
	} else {
		e.prev.next = e.next
	}

	if e.next == nil {
		l.tail = e.prev
	} else {
		e.next.prev = e.prev
	}

	v := e.value

	var zero T
	e.value = zero
	e.next = nil
	e.prev = nil
	e.list = nil

	l.n--
	l.g.touch()

	return v
}
