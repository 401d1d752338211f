package container

import (
	"fmt"
	"iter"
)

// VertexID is an opaque handle into a Graph's vertex arena.
type VertexID int

// Edge is an outgoing adjacency entry.
type Edge struct {
	To     VertexID
	Weight float64
}

type vertex[T any] struct {
	value T
	adj   []Edge
	live  bool
}

// Graph is an adjacency-list graph stored as an arena of vertices addressed
// by VertexID. Edges refer to vertices by handle, so cycles never form
// reference cycles. Removed vertices leave a tombstone; their handles are
// not reused.
//
// The graph does not detect cycles; traversals keep their own visited set.
type Graph[T any] struct {
	vertices []vertex[T]
	live     int
	edges    int
	directed bool
	cmp      func(a, b T) int
	g        guard
}

// NewGraph returns an empty graph. Undirected edges are stored in both
// adjacency lists.
func NewGraph[T any](cmp func(a, b T) int, directed bool) *Graph[T] {
	return &Graph[T]{cmp: cmp, directed: directed}
}

func (g *Graph[T]) Directed() bool { return g.directed }

// Len returns the number of live vertices.
func (g *Graph[T]) Len() int { return g.live }

// EdgeCount returns the number of edges; an undirected edge counts once.
func (g *Graph[T]) EdgeCount() int { return g.edges }

// Order returns the size of the vertex arena including tombstones. Valid
// handles are in [0, Order()).
func (g *Graph[T]) Order() int { return len(g.vertices) }

func (g *Graph[T]) AddVertex(v T) VertexID {
	g.vertices = append(g.vertices, vertex[T]{value: v, live: true})
	g.live++
	g.g.touch()

	return VertexID(len(g.vertices) - 1)
}

// AddEdge connects from to to with the given weight.
func (g *Graph[T]) AddEdge(from, to VertexID, weight float64) error {
	if !g.Has(from) {
		return fmt.Errorf("edge source %d: %w", from, ErrUnknownVertex)
	}
	if !g.Has(to) {
		return fmt.Errorf("edge target %d: %w", to, ErrUnknownVertex)
	}

	g.vertices[from].adj = append(g.vertices[from].adj, Edge{To: to, Weight: weight})
	if !g.directed && from != to {
		g.vertices[to].adj = append(g.vertices[to].adj, Edge{To: from, Weight: weight})
	}

	g.edges++
	g.g.touch()

	return nil
}

// Has reports whether id refers to a live vertex.
func (g *Graph[T]) Has(id VertexID) bool {
	return id >= 0 && int(id) < len(g.vertices) && g.vertices[id].live
}

func (g *Graph[T]) Vertex(id VertexID) (T, bool) {
	if !g.Has(id) {
		var zero T
		return zero, false
	}

	return g.vertices[id].value, true
}

// Neighbors iterates the outgoing edges of id in insertion order.
func (g *Graph[T]) Neighbors(id VertexID) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		if !g.Has(id) {
			return
		}

		start := g.g.mods
		for _, e := range g.vertices[id].adj {
			if !yield(e) {
				return
			}
			g.g.check(start)
		}
	}
}

// RemoveVertex tombstones id, drops its edges and strips every edge that
// points at it. Its payload is returned to the caller.
func (g *Graph[T]) RemoveVertex(id VertexID) (T, bool) {
	var zero T
	if !g.Has(id) {
		return zero, false
	}

	removed := 0
	for i := range g.vertices {
		vx := &g.vertices[i]
		if !vx.live || VertexID(i) == id {
			continue
		}

		kept := vx.adj[:0]
		for _, e := range vx.adj {
			if e.To == id {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		vx.adj = kept
	}

	vx := &g.vertices[id]
	if g.directed {
		g.edges -= removed + len(vx.adj)
	} else {
		g.edges -= len(vx.adj)
	}

	v := vx.value
	vx.value = zero
	vx.adj = nil
	vx.live = false

	g.live--
	g.g.touch()

	return v, true
}

// Vertices iterates the handles of live vertices.
func (g *Graph[T]) Vertices() iter.Seq[VertexID] {
	return func(yield func(VertexID) bool) {
		start := g.g.mods
		for i := range g.vertices {
			if g.vertices[i].live && !yield(VertexID(i)) {
				return
			}
			g.g.check(start)
		}
	}
}

// Find returns the handle of the first live vertex equal to key.
func (g *Graph[T]) Find(key T) (VertexID, bool) {
	for i := range g.vertices {
		if g.vertices[i].live && g.cmp(g.vertices[i].value, key) == 0 {
			return VertexID(i), true
		}
	}

	return -1, false
}

// Insert adds v as an isolated vertex.
func (g *Graph[T]) Insert(v T) error {
	g.AddVertex(v)

	return nil
}

func (g *Graph[T]) Remove(key T) (T, bool) {
	id, ok := g.Find(key)
	if !ok {
		var zero T
		return zero, false
	}

	return g.RemoveVertex(id)
}

func (g *Graph[T]) Lookup(key T) (T, bool) {
	id, ok := g.Find(key)
	if !ok {
		var zero T
		return zero, false
	}

	return g.vertices[id].value, true
}

func (g *Graph[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for id := range g.Vertices() {
			if !yield(g.vertices[id].value) {
				return
			}
		}
	}
}
