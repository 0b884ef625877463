package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when the capacity is negative.
	ErrInvalidCapacity = errors.New("buffer: capacity must be non-negative")

	// ErrNilComparator is returned when no comparator is supplied.
	ErrNilComparator = errors.New("buffer: comparator must not be nil")
)

// Insertion selects how the insertion point of an accepted candidate is found.
type Insertion uint8

const (
	// LinearInsertion scans from the worst retained element towards the best.
	LinearInsertion Insertion = iota
	// BinaryInsertion binary-searches the sorted contents.
	BinaryInsertion
)

// String returns the name of the insertion strategy.
func (i Insertion) String() string {
	switch i {
	case LinearInsertion:
		return "linear"
	case BinaryInsertion:
		return "binary"
	default:
		return fmt.Sprintf("Insertion(%d)", uint8(i))
	}
}

// ParseInsertion parses the output of Insertion.String.
func ParseInsertion(s string) (Insertion, error) {
	switch s {
	case "linear", "":
		return LinearInsertion, nil
	case "binary":
		return BinaryInsertion, nil
	default:
		return 0, fmt.Errorf("buffer: unknown insertion strategy %q", s)
	}
}

// Stats counts what happened to the candidates offered to a buffer.
type Stats struct {
	Offered  int64 // Offered is the number of Offer calls.
	Inserted int64 // Inserted is the number of candidates that were retained.
	Rejected int64 // Rejected is the number of candidates refused by a full (or zero-capacity) buffer.
	Evicted  int64 // Evicted is the number of retained elements displaced by better candidates.
}

// Add returns the element-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Offered:  s.Offered + o.Offered,
		Inserted: s.Inserted + o.Inserted,
		Rejected: s.Rejected + o.Rejected,
		Evicted:  s.Evicted + o.Evicted,
	}
}

// Option configures a Bounded buffer.
type Option func(*options)

type options struct {
	insertion Insertion
}

// WithInsertion sets the insertion strategy. The default is LinearInsertion.
func WithInsertion(i Insertion) Option {
	return func(o *options) {
		o.insertion = i
	}
}

// Bounded is a fixed-capacity buffer holding the best elements offered so far,
// sorted best-first.
//
// Bounded is NOT safe for concurrent use. Parallel reductions give every
// worker its own buffer and combine finished buffers with Merge.
type Bounded[T any] struct {
	items     []T
	k         int
	cmp       func(a, b T) int
	insertion Insertion
	stats     Stats
}

// New creates an empty buffer of capacity k ordered by cmp.
//
// cmp follows the slices.SortFunc convention: a negative result means a ranks
// before (is better than) b. A capacity of zero is valid and yields a buffer
// that rejects every candidate.
func New[T any](k int, cmp func(a, b T) int, optFns ...Option) (*Bounded[T], error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, k)
	}
	if cmp == nil {
		return nil, ErrNilComparator
	}

	opts := options{insertion: LinearInsertion}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Bounded[T]{
		items:     make([]T, 0, min(k, 64)),
		k:         k,
		cmp:       cmp,
		insertion: opts.insertion,
	}, nil
}

// Offer inserts v if it ranks among the best k elements seen so far and
// reports whether it was retained.
//
// A full buffer compares v against its worst element only; v is rejected
// unless it is strictly better. Accepted candidates are placed after every
// retained element that compares equal to them.
func (b *Bounded[T]) Offer(v T) bool {
	b.stats.Offered++

	n := len(b.items)
	if n < b.k {
		pos := b.search(v, n)
		b.items = append(b.items, v)
		if pos < n {
			copy(b.items[pos+1:], b.items[pos:n])
			b.items[pos] = v
		}
		b.stats.Inserted++
		return true
	}

	if n == 0 || b.cmp(v, b.items[n-1]) >= 0 {
		b.stats.Rejected++
		return false
	}

	// Drop the worst and insert among the remaining k-1.
	pos := b.search(v, n-1)
	copy(b.items[pos+1:], b.items[pos:n-1])
	b.items[pos] = v
	b.stats.Inserted++
	b.stats.Evicted++
	return true
}

// search returns the upper bound of v within items[:n].
func (b *Bounded[T]) search(v T, n int) int {
	if b.insertion == BinaryInsertion {
		lo, hi := 0, n
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if b.cmp(v, b.items[mid]) < 0 {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		return lo
	}

	i := n
	for i > 0 && b.cmp(v, b.items[i-1]) < 0 {
		i--
	}
	return i
}

// Merge returns a new buffer with the receiver's capacity, comparator and
// insertion strategy holding the best elements of both buffers.
//
// Neither input is modified. When elements compare equal, those of the
// receiver come first, so merging adjacent partitions in source order keeps
// the result stable.
func (b *Bounded[T]) Merge(other *Bounded[T]) *Bounded[T] {
	out := &Bounded[T]{
		k:         b.k,
		cmp:       b.cmp,
		insertion: b.insertion,
		stats:     b.stats,
	}
	if other == nil {
		out.items = truncate(append(make([]T, 0, len(b.items)), b.items...), b.k)
		return out
	}
	out.stats = out.stats.Add(other.stats)
	out.items = mergeInto(make([]T, 0, min(b.k, len(b.items)+len(other.items))), b.items, other.items, b.k, b.cmp)
	return out
}

// mergeInto appends the first k elements of the merge of a and b to dst.
// Elements of a win ties.
func mergeInto[T any](dst, a, b []T, k int, cmp func(a, b T) int) []T {
	i, j := 0, 0
	for len(dst) < k && (i < len(a) || j < len(b)) {
		if i < len(a) && j < len(b) {
			if cmp(b[j], a[i]) < 0 {
				dst = append(dst, b[j])
				j++
			} else {
				dst = append(dst, a[i])
				i++
			}
		} else if i < len(a) {
			dst = append(dst, a[i])
			i++
		} else {
			dst = append(dst, b[j])
			j++
		}
	}
	return dst
}

func truncate[T any](s []T, k int) []T {
	if len(s) > k {
		clear(s[k:])
		return s[:k]
	}
	return s
}

// Drain returns the contents best-first and leaves the buffer empty.
func (b *Bounded[T]) Drain() []T {
	items := b.items
	b.items = nil
	if items == nil {
		return []T{}
	}
	return items
}

// Reset empties the buffer and clears its statistics.
func (b *Bounded[T]) Reset() {
	clear(b.items)
	b.items = b.items[:0]
	b.stats = Stats{}
}

// Len returns the number of retained elements.
func (b *Bounded[T]) Len() int { return len(b.items) }

// Cap returns the capacity k.
func (b *Bounded[T]) Cap() int { return b.k }

// Full reports whether the buffer holds k elements.
func (b *Bounded[T]) Full() bool { return len(b.items) >= b.k }

// Insertion returns the configured insertion strategy.
func (b *Bounded[T]) Insertion() Insertion { return b.insertion }

// Stats returns the candidate counters accumulated so far.
// Buffers produced by Merge carry the sum of both inputs.
func (b *Bounded[T]) Stats() Stats { return b.stats }

// Worst returns the worst retained element.
func (b *Bounded[T]) Worst() (T, bool) {
	if len(b.items) == 0 {
		var zero T
		return zero, false
	}
	return b.items[len(b.items)-1], true
}

// Items returns a copy of the retained elements, best-first.
func (b *Bounded[T]) Items() []T {
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}
