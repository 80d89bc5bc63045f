// Package batching splits listing sequences into bounded, order-preserving batches.
package batching

import (
	"iter"

	"github.com/jonathan/auction-appraiser/internal/types"
)

// Batches yields contiguous sub-slices of listings holding at most size elements each.
// The batches partition the input in original order; only the last one may be short.
// A non-positive size yields nothing.
//
// The yielded slices alias the input and must be treated as read-only.
func Batches(listings []types.Listing, size int) iter.Seq[[]types.Listing] {
	return func(yield func([]types.Listing) bool) {
		if size <= 0 {
			return
		}
		for start := 0; start < len(listings); start += size {
			end := min(start+size, len(listings))
			if !yield(listings[start:end:end]) {
				return
			}
		}
	}
}

// Count returns the number of batches Batches yields: ceil(n/size).
func Count(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
