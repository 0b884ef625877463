package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
)

// Entry is a keyed value, the element type used throughout the benchmarks.
type Entry struct {
	Key   string
	Value float64
}

// ByValueDesc orders entries by descending value.
func ByValueDesc(a, b Entry) int {
	switch {
	case a.Value > b.Value:
		return -1
	case a.Value < b.Value:
		return 1
	default:
		return 0
	}
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Perm returns the integers [0,n) in random order.
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Ints returns n values drawn from [0,maxVal). Small maxVal yields many ties.
func (r *RNG) Ints(n, maxVal int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(maxVal)
	}
	return out
}

// Shuffle shuffles s in place.
func Shuffle[T any](r *RNG, s []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Entries returns n entries "Item-1".."Item-n" with values 1..n, shuffled.
func (r *RNG) Entries(n int) []Entry {
	out := SortedEntries(n)
	Shuffle(r, out)
	return out
}

// SortedEntries returns n entries "Item-1".."Item-n" with values 1..n in
// ascending order.
func SortedEntries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Key: fmt.Sprintf("Item-%d", i+1), Value: float64(i + 1)}
	}
	return out
}

// SortLimit is the full sort-then-truncate baseline: it stable-sorts a copy of
// src and returns its first k elements.
func SortLimit[T any](src []T, k int, cmp func(a, b T) int) []T {
	sorted := slices.Clone(src)
	slices.SortStableFunc(sorted, cmp)
	if k < len(sorted) {
		sorted = sorted[:max(k, 0)]
	}
	if sorted == nil {
		return []T{}
	}
	return sorted
}

// Counting wraps a comparator and counts its invocations.
// It is safe for concurrent use.
type Counting[T any] struct {
	cmp   func(a, b T) int
	calls atomic.Int64
}

// NewCounting wraps cmp.
func NewCounting[T any](cmp func(a, b T) int) *Counting[T] {
	return &Counting[T]{cmp: cmp}
}

// Compare calls the wrapped comparator.
func (c *Counting[T]) Compare(a, b T) int {
	c.calls.Add(1)
	return c.cmp(a, b)
}

// Count returns the number of comparisons so far.
func (c *Counting[T]) Count() int64 {
	return c.calls.Load()
}

// Reset sets the counter back to zero.
func (c *Counting[T]) Reset() {
	c.calls.Store(0)
}
