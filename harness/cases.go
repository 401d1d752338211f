package harness

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/weiihann/dsbench/algo"
	"github.com/weiihann/dsbench/container"
	"github.com/weiihann/dsbench/workload"
)

// Prepared is the state built for one repetition. Run is the only part
// that is timed; Verify checks the outcome afterwards. Results go into
// state captured by the closures, never into package variables, since
// cells may run concurrently.
type Prepared struct {
	Run    func()
	Verify func() error
}

// PrepareFunc builds fresh state from a workload outside the timed window.
// It must copy what it needs; workloads are shared between cells.
type PrepareFunc func(w *workload.Workload) (Prepared, error)

// Case is one benchmarkable (algorithm, container) pair.
type Case struct {
	Algorithm string
	Container string
	Prepare   PrepareFunc
}

// Container kinds.
const (
	KindSlice   = "slice"
	KindArray   = "array"
	KindList    = "list"
	KindDList   = "dlist"
	KindBST     = "bst"
	KindHeap    = "heap"
	KindHashSet = "hashset"
	KindGraph   = "graph"
)

// Non-sort algorithms.
const (
	AlgoLinear   = "linear"
	AlgoBinary   = "binary"
	AlgoBSTFind  = "bst-lookup"
	AlgoInsert   = "insert"
	AlgoLookup   = "lookup"
	AlgoRemove   = "remove"
	AlgoBFS      = "bfs"
	AlgoDFS      = "dfs"
	AlgoDijkstra = "dijkstra"
)

var (
	indexableKinds = []string{KindSlice, KindArray}
	containerKinds = []string{KindArray, KindList, KindDList, KindBST, KindHeap, KindHashSet, KindGraph}
)

// Kinds returns every container kind.
func Kinds() []string {
	return append([]string{KindSlice}, containerKinds...)
}

// KnownAlgorithms returns the supported algorithm names.
func KnownAlgorithms() []string {
	names := make([]string, 0, 16)
	for _, s := range algo.Sorters() {
		names = append(names, s.Name)
	}

	return append(names,
		AlgoLinear, AlgoBinary, AlgoBSTFind,
		AlgoInsert, AlgoLookup, AlgoRemove,
		AlgoBFS, AlgoDFS, AlgoDijkstra,
	)
}

// KnownContainers returns the container kinds algorithm can run on.
func KnownContainers(algorithm string) []string {
	if _, err := algo.SortByName[int](algorithm); err == nil {
		return slices.Clone(indexableKinds)
	}

	switch algorithm {
	case AlgoLinear, AlgoBinary:
		return slices.Clone(indexableKinds)
	case AlgoBSTFind:
		return []string{KindBST}
	case AlgoInsert, AlgoLookup, AlgoRemove:
		return slices.Clone(containerKinds)
	case AlgoBFS, AlgoDFS, AlgoDijkstra:
		return []string{KindGraph}
	default:
		return nil
	}
}

// Resolve returns the case for algorithm on the given container kind.
func Resolve(algorithm, kind string) (Case, error) {
	if !slices.Contains(KnownContainers(algorithm), kind) {
		if KnownContainers(algorithm) == nil {
			return Case{}, fmt.Errorf("unknown algorithm %q", algorithm)
		}

		return Case{}, fmt.Errorf("algorithm %q does not run on container %q", algorithm, kind)
	}

	c := Case{Algorithm: algorithm, Container: kind}

	if sortFn, err := algo.SortByName[int](algorithm); err == nil {
		c.Prepare = sortCase(sortFn, kind)
		return c, nil
	}

	switch algorithm {
	case AlgoLinear:
		c.Prepare = searchCase(kind, false, algo.LinearSearch[int])
	case AlgoBinary:
		c.Prepare = searchCase(kind, true, algo.BinarySearch[int])
	case AlgoBSTFind:
		c.Prepare = bstLookupCase
	case AlgoInsert:
		c.Prepare = insertCase(kind)
	case AlgoLookup:
		c.Prepare = lookupCase(kind)
	case AlgoRemove:
		c.Prepare = removeCase(kind)
	case AlgoBFS, AlgoDFS:
		c.Prepare = traversalCase(algorithm)
	case AlgoDijkstra:
		c.Prepare = dijkstraCase
	}

	return c, nil
}

func indexable(kind string, values []int) container.Indexable[int] {
	if kind == KindArray {
		return container.ArrayOf(cmp.Compare[int], values)
	}

	return container.Slice[int](values)
}

func newContainer(kind string, n int) container.Container[int] {
	switch kind {
	case KindArray:
		return container.NewArray(cmp.Compare[int], container.WithCapacity(n))
	case KindList:
		return container.NewList(cmp.Compare[int])
	case KindDList:
		return container.NewDList(cmp.Compare[int])
	case KindBST:
		return container.NewBST(cmp.Compare[int])
	case KindHeap:
		return container.NewHeap(cmp.Compare[int], container.MinFirst, container.WithCapacity(n))
	case KindHashSet:
		return container.NewHashSet[int](container.WithCapacity(n))
	default:
		return container.NewGraph(cmp.Compare[int], false)
	}
}

// uniqueKeys reports whether kind drops duplicate keys on insert.
func uniqueKeys(kind string) bool {
	return kind == KindBST || kind == KindHashSet
}

func expectedLen(kind string, values []int) int {
	if !uniqueKeys(kind) {
		return len(values)
	}

	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}

	return len(seen)
}

func sortCase(sortFn algo.SortFunc[int], kind string) PrepareFunc {
	return func(w *workload.Workload) (Prepared, error) {
		values := w.Values()
		data := indexable(kind, values)

		want := w.Values()
		slices.Sort(want)

		return Prepared{
			Run: func() { sortFn(data, cmp.Compare[int]) },
			Verify: func() error {
				for i, v := range want {
					if data.At(i) != v {
						return fmt.Errorf("position %d holds %d, want %d", i, data.At(i), v)
					}
				}

				return nil
			},
		}, nil
	}
}

type searchFunc func(data container.Indexable[int], target int, cmp func(a, b int) int) int

func searchCase(kind string, sorted bool, search searchFunc) PrepareFunc {
	return func(w *workload.Workload) (Prepared, error) {
		values := w.Values()
		if sorted {
			slices.Sort(values)
		}

		data := indexable(kind, values)
		targets := w.Values()
		found := 0

		return Prepared{
			Run: func() {
				for _, t := range targets {
					if search(data, t, cmp.Compare[int]) >= 0 {
						found++
					}
				}
			},
			Verify: func() error {
				if found != len(targets) {
					return fmt.Errorf("found %d of %d targets", found, len(targets))
				}

				return nil
			},
		}, nil
	}
}

func bstLookupCase(w *workload.Workload) (Prepared, error) {
	tree := container.NewBST(cmp.Compare[int])
	for v := range w.All() {
		if err := tree.Insert(v); err != nil {
			return Prepared{}, err
		}
	}

	targets := w.Values()
	found := 0

	return Prepared{
		Run: func() {
			for _, t := range targets {
				if _, ok := algo.BSTSearch(tree, t); ok {
					found++
				}
			}
		},
		Verify: func() error {
			if found != len(targets) {
				return fmt.Errorf("found %d of %d targets", found, len(targets))
			}

			return nil
		},
	}, nil
}

func fill(kind string, values []int) (container.Container[int], error) {
	c := newContainer(kind, len(values))
	for _, v := range values {
		if err := c.Insert(v); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func insertCase(kind string) PrepareFunc {
	return func(w *workload.Workload) (Prepared, error) {
		values := w.Values()
		c := newContainer(kind, len(values))

		var runErr error

		return Prepared{
			Run: func() {
				for _, v := range values {
					if err := c.Insert(v); err != nil {
						runErr = err
						return
					}
				}
			},
			Verify: func() error {
				if runErr != nil {
					return runErr
				}

				return checkLen(c, expectedLen(kind, values))
			},
		}, nil
	}
}

func lookupCase(kind string) PrepareFunc {
	return func(w *workload.Workload) (Prepared, error) {
		values := w.Values()
		c, err := fill(kind, values)
		if err != nil {
			return Prepared{}, err
		}

		found := 0

		return Prepared{
			Run: func() {
				for _, v := range values {
					if _, ok := c.Lookup(v); ok {
						found++
					}
				}
			},
			Verify: func() error {
				if found != len(values) {
					return fmt.Errorf("found %d of %d keys", found, len(values))
				}

				return nil
			},
		}, nil
	}
}

func removeCase(kind string) PrepareFunc {
	return func(w *workload.Workload) (Prepared, error) {
		values := w.Values()
		c, err := fill(kind, values)
		if err != nil {
			return Prepared{}, err
		}

		return Prepared{
			Run: func() {
				for _, v := range values {
					c.Remove(v)
				}
			},
			Verify: func() error { return checkLen(c, 0) },
		}, nil
	}
}

func checkLen(c container.Container[int], want int) error {
	if c.Len() != want {
		return fmt.Errorf("len %d, want %d", c.Len(), want)
	}

	n := 0
	for range c.All() {
		n++
	}

	if n != want {
		return fmt.Errorf("iterated %d elements, len reports %d", n, want)
	}

	return nil
}

// buildGraph lays the workload out as an undirected ring with one chord per
// vertex chosen by its value, so the graph is connected and cyclic.
func buildGraph(w *workload.Workload) (*container.Graph[int], error) {
	n := w.Len()
	g := container.NewGraph(cmp.Compare[int], false)
	for v := range w.All() {
		g.AddVertex(v)
	}

	for i := 0; i < n && n > 1; i++ {
		next := (i + 1) % n
		weight := float64(abs(w.At(i)-w.At(next)) + 1)
		if err := g.AddEdge(container.VertexID(i), container.VertexID(next), weight); err != nil {
			return nil, err
		}

		if chord := w.At(i) % n; chord != i && chord != next {
			if err := g.AddEdge(container.VertexID(i), container.VertexID(chord), 1); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func traversalCase(algorithm string) PrepareFunc {
	return func(w *workload.Workload) (Prepared, error) {
		g, err := buildGraph(w)
		if err != nil {
			return Prepared{}, err
		}

		traverse := algo.BFS[int]
		if algorithm == AlgoDFS {
			traverse = algo.DFS[int]
		}

		visited := 0

		return Prepared{
			Run: func() {
				if g.Len() == 0 {
					return
				}
				for range traverse(g, 0) {
					visited++
				}
			},
			Verify: func() error {
				if visited != g.Len() {
					return fmt.Errorf("visited %d of %d vertices", visited, g.Len())
				}

				return nil
			},
		}, nil
	}
}

func dijkstraCase(w *workload.Workload) (Prepared, error) {
	g, err := buildGraph(w)
	if err != nil {
		return Prepared{}, err
	}

	var (
		paths  *algo.Paths
		runErr error
	)

	return Prepared{
		Run: func() {
			if g.Len() == 0 {
				return
			}
			paths, runErr = algo.ShortestPaths(g, 0)
		},
		Verify: func() error {
			if runErr != nil || g.Len() == 0 {
				return runErr
			}

			for v := range g.Vertices() {
				if _, ok := paths.Dist(v); !ok {
					return fmt.Errorf("vertex %d unreachable", v)
				}
			}

			return nil
		},
	}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
