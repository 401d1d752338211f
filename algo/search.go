package algo

import (
	"errors"
	"fmt"

	"github.com/weiihann/dsbench/container"
)

// ErrNotSorted is the precondition violation reported by CheckedBinarySearch
// when its input is not sorted under the comparator.
var ErrNotSorted = errors.New("binary search precondition violated: input not sorted")

// PreconditionError locates the first out-of-order pair.
type PreconditionError struct {
	Index int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%v (element %d is greater than element %d)", ErrNotSorted, e.Index-1, e.Index)
}

func (e *PreconditionError) Unwrap() error { return ErrNotSorted }

// LinearSearch returns the index of the first element equal to target, or
// -1.
func LinearSearch[T any](data container.Indexable[T], target T, cmp func(a, b T) int) int {
	for i := 0; i < data.Len(); i++ {
		if cmp(data.At(i), target) == 0 {
			return i
		}
	}

	return -1
}

// BinarySearch returns an index i with data[i] equal to target, or -1.
//
// Precondition: data is sorted under cmp. The result is unspecified when it
// is not; use CheckedBinarySearch to have the violation reported.
func BinarySearch[T any](data container.Indexable[T], target T, cmp func(a, b T) int) int {
	lo, hi := 0, data.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c := cmp(data.At(mid), target)
		switch {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			return mid
		}
	}

	return -1
}

// CheckedBinarySearch verifies the sortedness precondition in O(n) before
// searching. An unsorted input yields a *PreconditionError wrapping
// ErrNotSorted; it is never silently sorted.
func CheckedBinarySearch[T any](data container.Indexable[T], target T, cmp func(a, b T) int) (int, error) {
	for i := 1; i < data.Len(); i++ {
		if cmp(data.At(i-1), data.At(i)) > 0 {
			return -1, &PreconditionError{Index: i}
		}
	}

	return BinarySearch(data, target, cmp), nil
}

// BSTSearch looks target up in tree.
func BSTSearch[T any](tree *container.BST[T], target T) (T, bool) {
	return tree.Lookup(target)
}
