package container

import (
	"cmp"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func count[T any](c Container[T]) int {
	n := 0
	for range c.All() {
		n++
	}

	return n
}

func containers() map[string]func() Container[int] {
	return map[string]func() Container[int]{
		"array":   func() Container[int] { return NewArray(cmp.Compare[int]) },
		"list":    func() Container[int] { return NewList(cmp.Compare[int]) },
		"dlist":   func() Container[int] { return NewDList(cmp.Compare[int]) },
		"bst":     func() Container[int] { return NewBST(cmp.Compare[int]) },
		"heap":    func() Container[int] { return NewHeap(cmp.Compare[int], MinFirst) },
		"hashset": func() Container[int] { return NewHashSet[int]() },
		"graph":   func() Container[int] { return NewGraph(cmp.Compare[int], false) },
	}
}

// TestSizeMatchesIteration drives every container through a random mix of
// inserts and removes and checks Len against the number of reachable
// elements after each step.
func TestSizeMatchesIteration(t *testing.T) {
	for name, mk := range containers() {
		t.Run(name, func(t *testing.T) {
			c := mk()
			rng := rand.New(rand.NewPCG(7, 11))

			for step := 0; step < 500; step++ {
				key := rng.IntN(64)
				if rng.IntN(3) == 0 {
					c.Remove(key)
				} else {
					require.NoError(t, c.Insert(key))
				}

				require.Equal(t, count(c), c.Len(), "step %d", step)
			}
		})
	}
}

func TestMissesAreNotErrors(t *testing.T) {
	for name, mk := range containers() {
		t.Run(name, func(t *testing.T) {
			c := mk()
			require.NoError(t, c.Insert(1))

			v, ok := c.Lookup(99)
			assert.False(t, ok)
			assert.Zero(t, v)

			v, ok = c.Remove(99)
			assert.False(t, ok)
			assert.Zero(t, v)

			v, ok = c.Remove(1)
			assert.True(t, ok)
			assert.Equal(t, 1, v)
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestMutationDuringIterationPanics(t *testing.T) {
	for name, mk := range containers() {
		t.Run(name, func(t *testing.T) {
			c := mk()
			for i := range 4 {
				require.NoError(t, c.Insert(i))
			}

			assert.PanicsWithValue(t, ErrConcurrentModification, func() {
				for v := range c.All() {
					c.Remove(v)
				}
			})
		})
	}
}

func TestIterationIsRestartable(t *testing.T) {
	a := ArrayOf(cmp.Compare[int], []int{3, 1, 2})
	seq := a.All()

	var first, second []int
	for v := range seq {
		first = append(first, v)
	}
	for v := range seq {
		second = append(second, v)
	}

	assert.Equal(t, []int{3, 1, 2}, first)
	assert.Equal(t, first, second)
}

func TestFixedCapacity(t *testing.T) {
	tests := []struct {
		name string
		c    Container[int]
	}{
		{"array", NewArray(cmp.Compare[int], WithFixedCapacity(2))},
		{"heap", NewHeap(cmp.Compare[int], MaxFirst, WithFixedCapacity(2))},
		{"hashset", NewHashSet[int](WithFixedCapacity(2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.c.Insert(1))
			require.NoError(t, tt.c.Insert(2))

			err := tt.c.Insert(3)
			require.Error(t, err)
			assert.True(t, IsCapacity(err))

			var capErr *CapacityError
			require.ErrorAs(t, err, &capErr)
			assert.Equal(t, 2, capErr.Capacity)
			assert.Equal(t, 2, tt.c.Len())

			tt.c.Remove(1)
			assert.NoError(t, tt.c.Insert(3))
		})
	}
}

func TestArrayGrowthAndShifting(t *testing.T) {
	a := NewArray(cmp.Compare[int])
	for i := range 9 {
		require.NoError(t, a.Insert(i))
	}

	assert.Equal(t, 9, a.Len())
	assert.Equal(t, 16, a.Cap())

	require.NoError(t, a.InsertAt(0, -1))
	require.NoError(t, a.InsertAt(5, 100))
	assert.Equal(t, []int{-1, 0, 1, 2, 3, 100, 4, 5, 6, 7, 8}, a.Values())

	v, ok := a.RemoveAt(5)
	require.True(t, ok)
	assert.Equal(t, 100, v)

	_, ok = a.RemoveAt(42)
	assert.False(t, ok)

	a.Swap(0, 1)
	assert.Equal(t, 0, a.At(0))
	assert.Equal(t, 3, a.Index(2))

	assert.Panics(t, func() { a.At(a.Len()) })
}

func TestListSplicing(t *testing.T) {
	l := NewList(cmp.Compare[int])

	_, ok := l.PeekFront()
	assert.False(t, ok)

	first := l.PushBack(1)
	third := l.PushBack(3)
	_, err := l.InsertAfter(first, 2)
	require.NoError(t, err)
	l.PushFront(0)

	head, ok := l.PeekFront()
	require.True(t, ok)
	assert.Equal(t, 0, head)
	assert.Equal(t, third, l.Back())

	v, ok := l.At(2)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok, err = l.RemoveAfter(first)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok, err = l.RemoveAfter(third)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok = l.Remove(3)
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, first, l.Back())
	assert.Nil(t, third.Next())

	_, err = l.InsertAfter(third, 9)
	assert.ErrorIs(t, err, ErrForeignNode)

	other := NewList(cmp.Compare[int])
	_, _, err = other.RemoveAfter(first)
	assert.ErrorIs(t, err, ErrForeignNode)

	for l.Len() > 0 {
		_, ok := l.PopFront()
		require.True(t, ok)
	}
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
}

func TestDListSplicing(t *testing.T) {
	l := NewDList(cmp.Compare[int])

	mid := l.PushBack(2)
	_, err := l.InsertBefore(mid, 1)
	require.NoError(t, err)
	_, err = l.InsertAfter(mid, 3)
	require.NoError(t, err)
	l.PushFront(0)

	var fwd, back []int
	for v := range l.All() {
		fwd = append(fwd, v)
	}
	for v := range l.Backward() {
		back = append(back, v)
	}

	assert.Equal(t, []int{0, 1, 2, 3}, fwd)
	assert.Equal(t, []int{3, 2, 1, 0}, back)

	v, err := l.RemoveElement(mid)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Nil(t, mid.Next())
	assert.Nil(t, mid.Prev())

	_, err = l.RemoveElement(mid)
	assert.ErrorIs(t, err, ErrForeignNode)

	v, ok := l.PopBack()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, l.Back().Value())
	assert.Equal(t, 0, l.Back().Prev().Value())
}

func TestBSTTraversals(t *testing.T) {
	tree := NewBST(cmp.Compare[int])
	for _, v := range []int{5, 3, 8, 1, 4, 7, 9, 5} {
		require.NoError(t, tree.Insert(v))
	}

	collect := func(seq func(func(int) bool)) []int {
		var out []int
		seq(func(v int) bool {
			out = append(out, v)
			return true
		})

		return out
	}

	assert.Equal(t, 7, tree.Len(), "duplicate key must be ignored")
	assert.Equal(t, []int{1, 3, 4, 5, 7, 8, 9}, collect(tree.InOrder()))
	assert.Equal(t, []int{5, 3, 1, 4, 8, 7, 9}, collect(tree.PreOrder()))
	assert.Equal(t, []int{1, 4, 3, 7, 9, 8, 5}, collect(tree.PostOrder()))
	assert.Equal(t, 3, tree.Height())

	lo, _ := tree.Min()
	hi, _ := tree.Max()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 9, hi)
	assert.True(t, tree.Contains(4))
	assert.Equal(t, 3, tree.Depth(4))
}

func TestBSTRemove(t *testing.T) {
	tree := NewBST(cmp.Compare[int])
	for _, v := range []int{50, 30, 70, 20, 40, 60, 80, 35, 45, 65} {
		require.NoError(t, tree.Insert(v))
	}

	for _, v := range []int{20, 70, 30, 50} {
		got, ok := tree.Remove(v)
		require.True(t, ok)
		assert.Equal(t, v, got)
		assert.False(t, tree.Contains(v))
	}

	var out []int
	for v := range tree.All() {
		out = append(out, v)
	}
	assert.Equal(t, []int{35, 40, 45, 60, 65, 80}, out)
	assert.Equal(t, 6, tree.Len())
}

// TestBSTSortedInputDegenerates checks that ascending inserts build a spine
// whose height equals the number of keys.
func TestBSTSortedInputDegenerates(t *testing.T) {
	tree := NewBST(cmp.Compare[int])
	for i := 1; i <= 1000; i++ {
		require.NoError(t, tree.Insert(i))
	}

	assert.Equal(t, 1000, tree.Height())
	assert.Equal(t, 1000, tree.Depth(1000))
	assert.Equal(t, 1, tree.Depth(1))
}

func heapOrdered[T any](h *Heap[T]) bool {
	for i := 1; i < len(h.data); i++ {
		if h.before(h.data[i], h.data[(i-1)/2]) {
			return false
		}
	}

	return true
}

func TestHeapInvariant(t *testing.T) {
	for _, order := range []Order{MinFirst, MaxFirst} {
		t.Run(order.String(), func(t *testing.T) {
			h := NewHeap(cmp.Compare[int], order)
			rng := rand.New(rand.NewPCG(1, 2))

			for i := 0; i < 300; i++ {
				require.NoError(t, h.Push(rng.IntN(100)))
				require.True(t, heapOrdered(h), "after push %d", i)
			}

			for i := 0; i < 50; i++ {
				h.Remove(rng.IntN(100))
				require.True(t, heapOrdered(h), "after remove %d", i)
			}

			prev, ok := h.Pop()
			require.True(t, ok)
			for h.Len() > 0 {
				v, _ := h.Pop()
				require.True(t, heapOrdered(h))
				if order == MinFirst {
					require.LessOrEqual(t, prev, v)
				} else {
					require.GreaterOrEqual(t, prev, v)
				}
				prev = v
			}

			_, ok = h.Peek()
			assert.False(t, ok)
		})
	}
}

func TestHashTable(t *testing.T) {
	h := NewHashTable[string, int]()
	for i := 0; i < 100; i++ {
		require.NoError(t, h.Put(string(rune('a'+i%26))+string(rune('A'+i/26)), i))
	}
	assert.Equal(t, 100, h.Len())
	assert.GreaterOrEqual(t, len(h.buckets), 128)

	require.NoError(t, h.Put("aA", -1))
	v, ok := h.Get("aA")
	require.True(t, ok)
	assert.Equal(t, -1, v)
	assert.Equal(t, 100, h.Len())

	v, ok = h.Delete("bA")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = h.Get("bA")
	assert.False(t, ok)

	n := 0
	for range h.All() {
		n++
	}
	assert.Equal(t, h.Len(), n)
}

func TestGraph(t *testing.T) {
	g := NewGraph(cmp.Compare[string], false)
	a := g.AddVertex("a")
	b := g.AddVertex("b")
	c := g.AddVertex("c")

	require.NoError(t, g.AddEdge(a, b, 1))
	require.NoError(t, g.AddEdge(b, c, 2))
	require.NoError(t, g.AddEdge(c, a, 3))
	assert.ErrorIs(t, g.AddEdge(a, VertexID(42), 1), ErrUnknownVertex)
	assert.Equal(t, 3, g.EdgeCount())

	var nb []VertexID
	for e := range g.Neighbors(a) {
		nb = append(nb, e.To)
	}
	assert.Equal(t, []VertexID{b, c}, nb)

	v, ok := g.RemoveVertex(b)
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, g.EdgeCount())
	assert.False(t, g.Has(b))
	assert.Equal(t, 2, g.Len())

	nb = nb[:0]
	for e := range g.Neighbors(a) {
		nb = append(nb, e.To)
	}
	assert.Equal(t, []VertexID{c}, nb)

	_, ok = g.Vertex(b)
	assert.False(t, ok)
	assert.ErrorIs(t, g.AddEdge(a, b, 1), ErrUnknownVertex)
}
