package benchmark_test

import (
	"github.com/hupe1980/topk/testutil"
)

// ============================================================================
// Benchmark Configuration
// ============================================================================

// Standard dataset sizes.
const (
	sizeSmall  = 10_000    // Quick iteration
	sizeMedium = 100_000   // Default CI
	sizeLarge  = 1_000_000 // Production-scale
)

// Result sizes from leaderboards up to where binary insertion pays off.
var ks = []int{1, 10, 100, 1000}

// Seed for deterministic benchmarks - enables reproducible comparisons.
const benchSeed = 42

// makeEntries returns n shuffled entries with distinct values.
func makeEntries(n int) []testutil.Entry {
	return testutil.NewRNG(benchSeed).Entries(n)
}
