package container

import (
	"hash/maphash"
	"iter"
)

const (
	minBuckets    = 8
	maxLoadFactor = 0.75
)

type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// HashTable is a separately chained hash table with a power-of-two bucket
// array that doubles once the load factor passes 0.75. Iteration order is
// unspecified.
type HashTable[K comparable, V any] struct {
	buckets  []*entry[K, V]
	n        int
	seed     maphash.Seed
	capacity int
	fixed    bool
	g        guard
}

func NewHashTable[K comparable, V any](opts ...Option) *HashTable[K, V] {
	o := buildOptions(opts)

	size := minBuckets
	for float64(o.capacity) > maxLoadFactor*float64(size) {
		size <<= 1
	}

	return &HashTable[K, V]{
		buckets:  make([]*entry[K, V], size),
		seed:     maphash.MakeSeed(),
		capacity: o.capacity,
		fixed:    o.fixed,
	}
}

func (h *HashTable[K, V]) Len() int { return h.n }

// Put stores value under key, replacing any previous value. Replacing an
// existing key never fails, even when a fixed capacity is reached.
func (h *HashTable[K, V]) Put(key K, value V) error {
	b := h.bucket(key)
	for e := h.buckets[b]; e != nil; e = e.next {
		if e.key == key {
			e.value = value
			return nil
		}
	}

	if h.fixed && h.n >= h.capacity {
		return &CapacityError{Kind: "hashtable", Capacity: h.capacity}
	}

	h.buckets[b] = &entry[K, V]{key: key, value: value, next: h.buckets[b]}
	h.n++
	h.g.touch()

	if float64(h.n) > maxLoadFactor*float64(len(h.buckets)) {
		h.resize(len(h.buckets) << 1)
	}

	return nil
}

func (h *HashTable[K, V]) Get(key K) (V, bool) {
	for e := h.buckets[h.bucket(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}

	var zero V
	return zero, false
}

// Delete removes key and returns the value it held.
func (h *HashTable[K, V]) Delete(key K) (V, bool) {
	b := h.bucket(key)
	link := &h.buckets[b]
	for *link != nil {
		e := *link
		if e.key == key {
			*link = e.next
			e.next = nil

			h.n--
			h.g.touch()

			return e.value, true
		}

		link = &e.next
	}

	var zero V
	return zero, false
}

func (h *HashTable[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		start := h.g.mods
		for _, head := range h.buckets {
			for e := head; e != nil; e = e.next {
				if !yield(e.key, e.value) {
					return
				}
				h.g.check(start)
			}
		}
	}
}

// Keys iterates the stored keys.
func (h *HashTable[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range h.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (h *HashTable[K, V]) bucket(key K) int {
	return int(maphash.Comparable(h.seed, key) & uint64(len(h.buckets)-1))
}

func (h *HashTable[K, V]) resize(size int) {
	old := h.buckets
	h.buckets = make([]*entry[K, V], size)

	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			b := h.bucket(e.key)
			e.next = h.buckets[b]
			h.buckets[b] = e
			e = next
		}
	}
}

// HashSet adapts a HashTable to the Container capability set.
type HashSet[T comparable] struct {
	table *HashTable[T, struct{}]
}

func NewHashSet[T comparable](opts ...Option) *HashSet[T] {
	return &HashSet[T]{table: NewHashTable[T, struct{}](opts...)}
}

func (s *HashSet[T]) Len() int { return s.table.Len() }

func (s *HashSet[T]) Insert(v T) error { return s.table.Put(v, struct{}{}) }

func (s *HashSet[T]) Remove(key T) (T, bool) {
	if _, ok := s.table.Delete(key); !ok {
		var zero T
		return zero, false
	}

	return key, true
}

func (s *HashSet[T]) Lookup(key T) (T, bool) {
	if _, ok := s.table.Get(key); !ok {
		var zero T
		return zero, false
	}

	return key, true
}

func (s *HashSet[T]) All() iter.Seq[T] { return s.table.Keys() }
