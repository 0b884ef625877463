package topk

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/hupe1980/topk/buffer"
)

// Select returns the k best elements of src under cmp, best first.
//
// The result equals the first min(k, n) elements of a stable sort of src, so
// of several equal elements the one appearing first in src is kept. Absent
// elements are skipped. A nil src is treated as empty. src is not modified.
//
// It returns ErrInvalidArgument for a negative k or a nil comparator, and a
// *ComparatorError if a Fallible comparator fails.
func Select[T any](src []T, k int, cmp Comparator[T], optFns ...Option) ([]T, error) {
	return selectSeq(slices.Values(src), k, cmp, optFns)
}

// SelectSeq is Select for single-pass sources such as FromList. The sequence
// is consumed exactly once and not retained.
func SelectSeq[T any](seq iter.Seq[T], k int, cmp Comparator[T], optFns ...Option) ([]T, error) {
	if seq == nil {
		return nil, invalidArgument("nil sequence")
	}
	return selectSeq(seq, k, cmp, optFns)
}

func selectSeq[T any](seq iter.Seq[T], k int, cmp Comparator[T], optFns []Option) ([]T, error) {
	o := applyOptions(optFns)
	start := time.Now()
	stats := SelectStats{Mode: ModeSequential, K: k, Partitions: 1}

	b, err := newBuffer(k, cmp, o)
	if err == nil {
		stats.Skipped, err = fill(seq, b)
	}

	var out []T
	if err == nil {
		stats.Stats = b.Stats()
		out = b.Drain()
		stats.Retained = len(out)
	}

	o.observe(context.Background(), stats, time.Since(start), err)
	return out, err
}

func newBuffer[T any](k int, cmp Comparator[T], o options) (*buffer.Bounded[T], error) {
	if cmp == nil {
		return nil, invalidArgument("nil comparator")
	}
	b, err := buffer.New(k, cmp, buffer.WithInsertion(o.insertion))
	if err != nil {
		return nil, translateError(err)
	}
	return b, nil
}

// fill offers every present element of seq to b and returns how many absent
// elements were skipped.
func fill[T any](seq iter.Seq[T], b *buffer.Bounded[T]) (skipped int64, err error) {
	defer recoverComparator(&err)

	absent := absentFunc[T]()
	for v := range seq {
		if absent != nil && absent(v) {
			skipped++
			continue
		}
		b.Offer(v)
	}
	return skipped, nil
}

func (o *options) observe(ctx context.Context, stats SelectStats, d time.Duration, err error) {
	o.metricsCollector.RecordSelect(stats, d, err)
	o.logger.LogSelect(ctx, stats, err)
}
