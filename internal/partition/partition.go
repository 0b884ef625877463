// Package partition splits sources into disjoint pieces for parallel workers.
package partition

import "iter"

// Range is the half-open interval [Lo, Hi) of a random-access source.
type Range struct {
	Lo int
	Hi int
}

// Len returns the number of elements in the range.
func (r Range) Len() int { return r.Hi - r.Lo }

// Ranges splits [0, n) into at most parts contiguous ranges whose sizes differ
// by at most one. Earlier ranges receive the remainder. No empty range is
// returned, so fewer than parts ranges come back when n < parts.
func Ranges(n, parts int) []Range {
	if n <= 0 || parts <= 0 {
		return nil
	}
	parts = min(parts, n)

	size, rem := n/parts, n%parts
	out := make([]Range, parts)
	lo := 0
	for i := range out {
		hi := lo + size
		if i < rem {
			hi++
		}
		out[i] = Range{Lo: lo, Hi: hi}
		lo = hi
	}
	return out
}

// Batches cuts a single-pass sequence into consecutive batches of up to size
// elements. Every yielded batch is freshly allocated and owned by the
// receiver.
func Batches[T any](seq iter.Seq[T], size int) iter.Seq[[]T] {
	size = max(size, 1)
	return func(yield func([]T) bool) {
		batch := make([]T, 0, size)
		for v := range seq {
			batch = append(batch, v)
			if len(batch) == size {
				if !yield(batch) {
					return
				}
				batch = make([]T, 0, size)
			}
		}
		if len(batch) > 0 {
			yield(batch)
		}
	}
}
