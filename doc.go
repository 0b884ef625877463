// Package topk selects the k best elements of a collection without sorting
// all of it.
//
// Selection streams the source once through a bounded buffer that keeps the
// best k elements seen so far, sorted best-first. Once the buffer is full,
// most candidates are rejected with a single comparison against the worst
// retained element, so selection costs O(n) comparisons in the common case
// instead of the O(n log n) of a sort followed by truncation.
//
// # Quick Start
//
//	best, err := topk.Select(values, 10, topk.Descending[float64]())
//
// Linked or single-pass sources use SelectSeq:
//
//	best, err := topk.SelectSeq(topk.FromList[*Item](l), 10, byScore)
//
// # Parallel Selection
//
// SelectParallel splits a slice into balanced partitions, selects within each
// partition on its own goroutine and combines the partial buffers pairwise:
//
//	best, err := topk.SelectParallel(ctx, values, 10, cmp, 8)
//
// SelectParallelSeq does the same for single-pass sources by cutting them
// into batches.
//
// # Collectors
//
// The partial/combine protocol is exposed as the Collector interface
// (Supply, Accumulate, Combine, Finish). ToList returns the top-k collector;
// Collect, CollectParallel and CollectParallelSeq drive any collector.
//
// # Ties
//
// Every entry point returns exactly the first k elements of a stable sort of
// the input: among elements that compare equal, the one encountered first
// wins. Absent elements (nil pointers, nil interfaces, nil maps, slices,
// funcs and channels) are skipped.
//
// # Errors
//
// Invalid arguments are reported as ErrInvalidArgument before any work is
// done. A comparator built with Fallible can report errors; they surface as
// *ComparatorError, which unwraps to the comparator's own error.
package topk
