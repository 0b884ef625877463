package topk

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/topk/buffer"
)

// Collector is a mutable reduction split into four steps so it can run over
// partitions in parallel:
//
//   - Supply creates an empty accumulator.
//   - Accumulate adds one element to an accumulator and returns it.
//   - Combine merges two accumulators built from adjacent parts of the
//     input, left before right, and returns the result.
//   - Finish converts the final accumulator into the result.
//
// Combine must be associative. The drivers only ever combine accumulators of
// adjacent parts and always pass the earlier part as left, so collectors that
// favor left on ties produce results independent of the partitioning.
type Collector[T, A, R any] interface {
	Supply() A
	Accumulate(acc A, v T) A
	Combine(left, right A) A
	Finish(acc A) R
}

// ListCollector collects the k best elements as a slice, best first.
type ListCollector[T any] struct {
	k         int
	cmp       Comparator[T]
	insertion buffer.Insertion
}

var _ Collector[int, *buffer.Bounded[int], []int] = (*ListCollector[int])(nil)

// ToList returns a collector for the k best elements under cmp. Only
// WithInsertion is meaningful among the options.
//
// It returns ErrInvalidArgument for a negative k or a nil comparator.
func ToList[T any](k int, cmp Comparator[T], optFns ...Option) (*ListCollector[T], error) {
	o := applyOptions(optFns)
	if _, err := newBuffer(k, cmp, o); err != nil {
		return nil, err
	}
	return &ListCollector[T]{k: k, cmp: cmp, insertion: o.insertion}, nil
}

// K returns the result size bound.
func (c *ListCollector[T]) K() int { return c.k }

// Supply returns an empty buffer of capacity k.
func (c *ListCollector[T]) Supply() *buffer.Bounded[T] {
	b, _ := buffer.New(c.k, c.cmp, buffer.WithInsertion(c.insertion))
	return b
}

// Accumulate offers v to acc.
func (c *ListCollector[T]) Accumulate(acc *buffer.Bounded[T], v T) *buffer.Bounded[T] {
	acc.Offer(v)
	return acc
}

// Combine returns the k best of both buffers; left wins ties.
func (c *ListCollector[T]) Combine(left, right *buffer.Bounded[T]) *buffer.Bounded[T] {
	return left.Merge(right)
}

// Finish drains acc.
func (c *ListCollector[T]) Finish(acc *buffer.Bounded[T]) []T {
	return acc.Drain()
}

// Collect runs c sequentially over seq, skipping absent elements.
//
// It returns ErrInvalidArgument for a nil sequence or collector.
func Collect[T, A, R any](seq iter.Seq[T], c Collector[T, A, R]) (r R, err error) {
	if seq == nil {
		return r, invalidArgument("nil sequence")
	}
	if c == nil {
		return r, invalidArgument("nil collector")
	}

	defer recoverComparator(&err)

	absent := absentFunc[T]()
	acc := c.Supply()
	for v := range seq {
		if absent != nil && absent(v) {
			continue
		}
		acc = c.Accumulate(acc, v)
	}
	return c.Finish(acc), nil
}

// combiner wraps Collector.Combine with metrics.
type combiner[T, A, R any] struct {
	c Collector[T, A, R]
	o *options
}

func (cb combiner[T, A, R]) combine(left, right A) A {
	start := time.Now()
	acc := cb.c.Combine(left, right)
	cb.o.metricsCollector.RecordCombine(time.Since(start))
	return acc
}

// reduce combines adjacent accumulators until one is left.
func (cb combiner[T, A, R]) reduce(ctx context.Context, accs []A) (A, error) {
	cb.o.logger.LogCombine(ctx, cb.o.combine, len(accs))

	if cb.o.combine == CombineFold || len(accs) <= 2 {
		var acc A
		err := guard(func() error {
			acc = accs[0]
			for _, next := range accs[1:] {
				acc = cb.combine(acc, next)
			}
			return nil
		})
		return acc, err
	}

	level := accs
	for len(level) > 1 {
		next := make([]A, (len(level)+1)/2)
		r := cb.o.newRunner(ctx, 0)
		for i := 0; i+1 < len(level); i += 2 {
			r.Go(func(context.Context) error {
				next[i/2] = cb.combine(level[i], level[i+1])
				return nil
			})
		}
		if len(level)%2 == 1 {
			next[len(next)-1] = level[len(level)-1]
		}
		if err := r.Wait(); err != nil {
			var zero A
			return zero, err
		}
		level = next
	}
	return level[0], nil
}
