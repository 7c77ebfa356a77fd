package collections

import (
	"sort"

	"github.com/Invicton-Labs/go-hashtable/constraints"
)

// CopySlice will create a copy of the given slice.
func CopySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// SortSliceAscendingInPlace sorts the slice in ascending order.
func SortSliceAscendingInPlace[SliceType constraints.Ordered](in []SliceType) {
	sort.Slice(in, func(i, j int) bool {
		return in[i] < in[j]
	})
}

// SortSliceAscendingCopy returns a sorted copy of the slice, leaving the input as-is.
func SortSliceAscendingCopy[SliceType constraints.Ordered](in []SliceType) (sorted []SliceType) {
	sorted = CopySlice(in)
	SortSliceAscendingInPlace(sorted)
	return sorted
}
