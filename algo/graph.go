package algo

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/weiihann/dsbench/container"
)

// ErrNegativeWeight is returned by ShortestPaths for a graph with a negative
// edge weight.
var ErrNegativeWeight = errors.New("negative edge weight")

// BFS yields the vertices reachable from start in breadth-first order. Each
// vertex is visited once, so cycles terminate. An unknown start yields
// nothing.
func BFS[T any](g *container.Graph[T], start container.VertexID) iter.Seq[container.VertexID] {
	return func(yield func(container.VertexID) bool) {
		if !g.Has(start) {
			return
		}

		visited := make([]bool, g.Order())
		visited[start] = true
		queue := []container.VertexID{start}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]

			if !yield(v) {
				return
			}

			for e := range g.Neighbors(v) {
				if !visited[e.To] {
					visited[e.To] = true
					queue = append(queue, e.To)
				}
			}
		}
	}
}

// DFS yields the vertices reachable from start in depth-first pre-order,
// exploring neighbors in insertion order. It uses an explicit stack so deep
// graphs do not grow the goroutine stack.
func DFS[T any](g *container.Graph[T], start container.VertexID) iter.Seq[container.VertexID] {
	return func(yield func(container.VertexID) bool) {
		if !g.Has(start) {
			return
		}

		visited := make([]bool, g.Order())
		stack := []container.VertexID{start}

		var nbrs []container.VertexID
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if visited[v] {
				continue
			}
			visited[v] = true

			if !yield(v) {
				return
			}

			nbrs = nbrs[:0]
			for e := range g.Neighbors(v) {
				if !visited[e.To] {
					nbrs = append(nbrs, e.To)
				}
			}

			for i := len(nbrs) - 1; i >= 0; i-- {
				stack = append(stack, nbrs[i])
			}
		}
	}
}

// Paths holds single-source shortest path distances.
type Paths struct {
	Source container.VertexID
	dist   []float64
	prev   []container.VertexID
}

// Dist returns the distance to v and whether v is reachable.
func (p *Paths) Dist(v container.VertexID) (float64, bool) {
	if v < 0 || int(v) >= len(p.dist) || math.IsInf(p.dist[v], 1) {
		return math.Inf(1), false
	}

	return p.dist[v], true
}

// PathTo returns the vertices from the source to v inclusive, or nil when v
// is unreachable.
func (p *Paths) PathTo(v container.VertexID) []container.VertexID {
	if _, ok := p.Dist(v); !ok {
		return nil
	}

	var path []container.VertexID
	for at := v; at != -1; at = p.prev[at] {
		path = append(path, at)
	}
	slices.Reverse(path)

	return path
}

type queued struct {
	v    container.VertexID
	dist float64
}

// ShortestPaths runs Dijkstra's algorithm from source using a
// container.Heap with lazy deletion of stale entries.
func ShortestPaths[T any](g *container.Graph[T], source container.VertexID) (*Paths, error) {
	if !g.Has(source) {
		return nil, fmt.Errorf("shortest paths source %d: %w", source, container.ErrUnknownVertex)
	}

	n := g.Order()
	p := &Paths{
		Source: source,
		dist:   make([]float64, n),
		prev:   make([]container.VertexID, n),
	}
	for i := range p.dist {
		p.dist[i] = math.Inf(1)
		p.prev[i] = -1
	}
	p.dist[source] = 0

	pq := container.NewHeap(func(a, b queued) int {
		return cmp.Compare(a.dist, b.dist)
	}, container.MinFirst)
	if err := pq.Push(queued{v: source}); err != nil {
		return nil, err
	}

	for pq.Len() > 0 {
		cur, _ := pq.Pop()
		if cur.dist > p.dist[cur.v] {
			continue
		}

		for e := range g.Neighbors(cur.v) {
			if e.Weight < 0 {
				return nil, fmt.Errorf("edge %d->%d: %w", cur.v, e.To, ErrNegativeWeight)
			}

			if d := cur.dist + e.Weight; d < p.dist[e.To] {
				p.dist[e.To] = d
				p.prev[e.To] = cur.v
				if err := pq.Push(queued{v: e.To, dist: d}); err != nil {
					return nil, err
				}
			}
		}
	}

	return p, nil
}
