// Package container implements the classic data structures benchmarked by
// dsbench: dynamic array, singly and doubly linked lists, an unbalanced
// binary search tree, an array-backed binary heap, a chained hash table and
// an adjacency-list graph.
//
// Every structure exposes the same capability set (Container): Insert,
// Remove, Lookup, All and Len. Misses are reported as (zero, false), never as
// errors. Iterators reflect the state at iteration start; mutating a
// container while ranging over it panics with ErrConcurrentModification.
package container

import "iter"

// Container is the capability set shared by all structures.
type Container[T any] interface {
	Insert(v T) error
	Remove(key T) (T, bool)
	Lookup(key T) (T, bool)
	All() iter.Seq[T]
	Len() int
}

// Indexable is the random-access contract sorts operate on.
type Indexable[T any] interface {
	Len() int
	At(i int) T
	Set(i int, v T)
	Swap(i, j int)
}

// Slice adapts a plain slice to Indexable.
type Slice[T any] []T

func (s Slice[T]) Len() int       { return len(s) }
func (s Slice[T]) At(i int) T     { return s[i] }
func (s Slice[T]) Set(i int, v T) { s[i] = v }
func (s Slice[T]) Swap(i, j int)  { s[i], s[j] = s[j], s[i] }

// Option configures a container at construction.
type Option func(*options)

type options struct {
	capacity int
	fixed    bool
}

// WithCapacity preallocates room for n elements.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithFixedCapacity bounds the container at n elements. Inserting beyond the
// bound fails with a CapacityError.
func WithFixedCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
			o.fixed = true
		}
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// guard tracks structural modifications so iterators can detect mutation
// while they are being ranged over.
type guard struct {
	mods uint64
}

func (g *guard) touch() { g.mods++ }

func (g *guard) check(start uint64) {
	if g.mods != start {
		panic(ErrConcurrentModification)
	}
}
