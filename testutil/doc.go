// Package testutil provides testing utilities for topk.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded random inputs, the full sort-then-truncate baseline
// used as ground truth, and a comparator wrapper that counts invocations.
//
// # Random Inputs
//
//	rng := testutil.NewRNG(seed)
//	values := rng.Perm(1000)         // distinct values in random order
//	dups := rng.Ints(1000, 10)       // many ties
//	entries := rng.Entries(1000)     // keyed entries with unique values
//
// # Ground Truth
//
//	want := testutil.SortLimit(values, k, cmp.Compare[int])
//
// # Counting Comparisons
//
//	c := testutil.NewCounting(cmp.Compare[int])
//	topk.Select(values, k, c.Compare)
//	fmt.Println(c.Count())
package testutil
