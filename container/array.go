package container

import "iter"

const minArrayCapacity = 4

// Array is a dynamic array with geometric growth. Appends are amortized
// O(1); InsertAt and RemoveAt shift elements and are O(n).
type Array[T any] struct {
	data  []T
	n     int
	cmp   func(a, b T) int
	fixed bool
	g     guard
}

// NewArray returns an empty array. cmp is used by Remove and Lookup to find
// an element equal to the key.
func NewArray[T any](cmp func(a, b T) int, opts ...Option) *Array[T] {
	o := buildOptions(opts)

	return &Array[T]{
		data:  make([]T, o.capacity),
		cmp:   cmp,
		fixed: o.fixed,
	}
}

// ArrayOf returns an array holding a copy of values.
func ArrayOf[T any](cmp func(a, b T) int, values []T) *Array[T] {
	a := NewArray(cmp, WithCapacity(len(values)))
	copy(a.data, values)
	a.n = len(values)

	return a
}

func (a *Array[T]) Len() int { return a.n }

// Cap returns the current backing capacity.
func (a *Array[T]) Cap() int { return len(a.data) }

func (a *Array[T]) At(i int) T {
	a.bounds(i, a.n)

	return a.data[i]
}

func (a *Array[T]) Set(i int, v T) {
	a.bounds(i, a.n)
	a.data[i] = v
}

func (a *Array[T]) Swap(i, j int) {
	a.bounds(i, a.n)
	a.bounds(j, a.n)
	a.data[i], a.data[j] = a.data[j], a.data[i]
}

// Insert appends v.
func (a *Array[T]) Insert(v T) error {
	return a.InsertAt(a.n, v)
}

// InsertAt places v at index i, shifting the tail right by one.
func (a *Array[T]) InsertAt(i int, v T) error {
	a.bounds(i, a.n+1)

	if a.n == len(a.data) {
		if err := a.grow(); err != nil {
			return err
		}
	}

	for j := a.n; j > i; j-- {
		a.data[j] = a.data[j-1]
	}

	a.data[i] = v
	a.n++
	a.g.touch()

	return nil
}

// RemoveAt removes and returns the element at i, shifting the tail left.
func (a *Array[T]) RemoveAt(i int) (T, bool) {
	var zero T
	if i < 0 || i >= a.n {
		return zero, false
	}

	v := a.data[i]
	for j := i; j < a.n-1; j++ {
		a.data[j] = a.data[j+1]
	}

	a.n--
	a.data[a.n] = zero
	a.g.touch()

	return v, true
}

// Index returns the position of the first element equal to key, or -1.
func (a *Array[T]) Index(key T) int {
	for i := 0; i < a.n; i++ {
		if a.cmp(a.data[i], key) == 0 {
			return i
		}
	}

	return -1
}

func (a *Array[T]) Remove(key T) (T, bool) {
	i := a.Index(key)
	if i < 0 {
		var zero T
		return zero, false
	}

	return a.RemoveAt(i)
}

func (a *Array[T]) Lookup(key T) (T, bool) {
	i := a.Index(key)
	if i < 0 {
		var zero T
		return zero, false
	}

	return a.data[i], true
}

func (a *Array[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := a.g.mods
		n := a.n
		for i := 0; i < n; i++ {
			if !yield(a.data[i]) {
				return
			}
			a.g.check(start)
		}
	}
}

// Values returns a copy of the live elements.
func (a *Array[T]) Values() []T {
	out := make([]T, a.n)
	copy(out, a.data[:a.n])

	return out
}

// Clear drops all elements but keeps the backing storage.
func (a *Array[T]) Clear() {
	clear(a.data[:a.n])
	a.n = 0
	a.g.touch()
}

func (a *Array[T]) grow() error {
	if a.fixed {
		return &CapacityError{Kind: "array", Capacity: len(a.data)}
	}

	next := max(2*len(a.data), minArrayCapacity)
	data := make([]T, next)
	copy(data, a.data[:a.n])
	a.data = data

	return nil
}

func (a *Array[T]) bounds(i, limit int) {
	if i < 0 || i >= limit {
		panic("container: array index out of range")
	}
}
