// Package algo holds the comparison sorts, searches and graph traversals
// benchmarked by dsbench. Sorts operate in place on any container.Indexable
// and take a three-way comparator.
//
// Stability: InsertionSort and MergeSort are stable. SelectionSort,
// QuickSort and HeapSort are not; callers must not rely on the relative
// order of equal keys after them.
package algo

import (
	"fmt"
	"slices"

	"github.com/weiihann/dsbench/container"
)

// quickCutoff is the partition size below which QuickSort hands off to
// insertion sort.
const quickCutoff = 12

// SortFunc sorts data in place under cmp.
type SortFunc[T any] func(data container.Indexable[T], cmp func(a, b T) int)

// Sorter describes a registered sort.
type Sorter struct {
	Name   string
	Stable bool
}

var sorters = []Sorter{
	{Name: "insertion", Stable: true},
	{Name: "selection", Stable: false},
	{Name: "merge", Stable: true},
	{Name: "quick", Stable: false},
	{Name: "heap", Stable: false},
}

// Sorters lists the available sorts in a fixed order.
func Sorters() []Sorter {
	out := make([]Sorter, len(sorters))
	copy(out, sorters)

	return out
}

// SortByName returns the sort registered under name.
func SortByName[T any](name string) (SortFunc[T], error) {
	switch name {
	case "insertion":
		return InsertionSort[T], nil
	case "selection":
		return SelectionSort[T], nil
	case "merge":
		return MergeSort[T], nil
	case "quick":
		return QuickSort[T], nil
	case "heap":
		return HeapSort[T], nil
	default:
		return nil, fmt.Errorf("unknown sort %q", name)
	}
}

// IsSorted reports whether data is non-decreasing under cmp.
func IsSorted[T any](data container.Indexable[T], cmp func(a, b T) int) bool {
	for i := 1; i < data.Len(); i++ {
		if cmp(data.At(i-1), data.At(i)) > 0 {
			return false
		}
	}

	return true
}

// InsertionSort is stable, O(n^2) worst case and O(n) on sorted input.
func InsertionSort[T any](data container.Indexable[T], cmp func(a, b T) int) {
	insertionRange(data, 0, data.Len(), cmp)
}

func insertionRange[T any](data container.Indexable[T], lo, hi int, cmp func(a, b T) int) {
	for i := lo + 1; i < hi; i++ {
		v := data.At(i)
		j := i
		for ; j > lo && cmp(data.At(j-1), v) > 0; j-- {
			data.Set(j, data.At(j-1))
		}
		data.Set(j, v)
	}
}

// SelectionSort is unstable and always O(n^2) comparisons, O(n) swaps.
func SelectionSort[T any](data container.Indexable[T], cmp func(a, b T) int) {
	n := data.Len()
	for i := 0; i < n-1; i++ {
		least := i
		for j := i + 1; j < n; j++ {
			if cmp(data.At(j), data.At(least)) < 0 {
				least = j
			}
		}

		if least != i {
			data.Swap(i, least)
		}
	}
}

// MergeSort is a stable bottom-up merge sort: O(n log n) time and an O(n)
// auxiliary buffer.
func MergeSort[T any](data container.Indexable[T], cmp func(a, b T) int) {
	n := data.Len()
	if n < 2 {
		return
	}

	src := make([]T, n)
	for i := range src {
		src[i] = data.At(i)
	}
	dst := make([]T, n)

	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			merge(dst, src, lo, mid, hi, cmp)
		}

		src, dst = dst, src
	}

	for i, v := range src {
		data.Set(i, v)
	}
}

// merge writes src[lo:mid] and src[mid:hi] merged into dst[lo:hi]. Ties take
// from the left run, which keeps the sort stable.
func merge[T any](dst, src []T, lo, mid, hi int, cmp func(a, b T) int) {
	i, j := lo, mid
	for k := lo; k < hi; k++ {
		if i < mid && (j >= hi || cmp(src[j], src[i]) >= 0) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
	}
}

// QuickSort is unstable, O(n log n) on average and O(n^2) in the worst case.
//
// Pivot: median of the first, middle and last element of each partition.
// That keeps sorted and reverse-sorted inputs at O(n log n); adversarial
// "median-of-three killer" sequences still reach the quadratic bound.
// Partitions shorter than quickCutoff are finished with insertion sort, and
// the loop recurses only into the smaller side so stack depth is O(log n).
func QuickSort[T any](data container.Indexable[T], cmp func(a, b T) int) {
	quickRange(data, 0, data.Len()-1, cmp)
}

func quickRange[T any](data container.Indexable[T], lo, hi int, cmp func(a, b T) int) {
	for hi-lo+1 > quickCutoff {
		p := partition(data, lo, hi, cmp)
		if p-lo < hi-p {
			quickRange(data, lo, p, cmp)
			lo = p + 1
		} else {
			quickRange(data, p+1, hi, cmp)
			hi = p
		}
	}

	insertionRange(data, lo, hi+1, cmp)
}

// partition is a Hoare partition around the median-of-three pivot. It
// returns p such that every element of [lo, p] is <= every element of
// [p+1, hi].
func partition[T any](data container.Indexable[T], lo, hi int, cmp func(a, b T) int) int {
	mid := lo + (hi-lo)/2
	if cmp(data.At(mid), data.At(lo)) < 0 {
		data.Swap(mid, lo)
	}
	if cmp(data.At(hi), data.At(lo)) < 0 {
		data.Swap(hi, lo)
	}
	if cmp(data.At(hi), data.At(mid)) < 0 {
		data.Swap(hi, mid)
	}

	pivot := data.At(mid)
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if cmp(data.At(i), pivot) >= 0 {
				break
			}
		}
		for {
			j--
			if cmp(data.At(j), pivot) <= 0 {
				break
			}
		}

		if i >= j {
			return j
		}

		data.Swap(i, j)
	}
}

// HeapSort is unstable, in place and O(n log n). It builds a max-heap with
// container.Heapify and repeatedly moves the root behind the shrinking heap.
func HeapSort[T any](data container.Indexable[T], cmp func(a, b T) int) {
	before := func(a, b T) bool { return cmp(a, b) > 0 }

	n := data.Len()
	container.Heapify(data, n, before)
	for end := n - 1; end > 0; end-- {
		data.Swap(0, end)
		container.SiftDown(data, 0, end, before)
	}
}

// Names returns the registered sort names, sorted.
func Names() []string {
	names := make([]string, 0, len(sorters))
	for _, s := range sorters {
		names = append(names, s.Name)
	}
	slices.Sort(names)

	return names
}
