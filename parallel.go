package topk

import (
	"context"
	"iter"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/hupe1980/topk/buffer"
	"github.com/hupe1980/topk/internal/partition"
)

// ctxCheckInterval is the number of elements a worker accumulates between
// context checks.
const ctxCheckInterval = 4096

// SelectParallel returns the same result as Select, computed on up to
// partitions goroutines.
//
// src is split into balanced contiguous ranges. Each range is accumulated
// into its own buffer by one goroutine; the buffers are then combined in
// source order, pairwise as a tree by default or left to right with
// WithCombine(CombineFold). A partitions value of zero means GOMAXPROCS;
// partitions beyond len(src) are not created.
//
// On cancellation it returns ctx.Err(). A panic raised by the comparator on a
// worker cancels the other workers and is re-raised on the calling goroutine.
func SelectParallel[T any](ctx context.Context, src []T, k int, cmp Comparator[T], partitions int, optFns ...Option) ([]T, error) {
	o := applyOptions(optFns)
	start := time.Now()
	stats := SelectStats{Mode: ModeParallel, K: k}

	out, err := func() ([]T, error) {
		if partitions < 0 {
			return nil, invalidArgument("partitions must be non-negative, got %d", partitions)
		}
		if partitions == 0 {
			partitions = runtime.GOMAXPROCS(0)
		}
		if err := o.validate(); err != nil {
			return nil, err
		}
		c, err := ToList(k, cmp, WithInsertion(o.insertion))
		if err != nil {
			return nil, err
		}

		res, err := collectSlice[T, *buffer.Bounded[T], []T](ctx, src, c, partitions, &o)
		stats.Partitions, stats.Skipped = res.parts, res.skipped
		if err != nil {
			return nil, err
		}
		stats.Stats = res.acc.Stats()
		return res.acc.Drain(), nil
	}()

	stats.Retained = len(out)
	o.observe(ctx, stats, time.Since(start), err)
	return out, err
}

// SelectParallelSeq returns the same result as SelectSeq, accumulating on
// several goroutines.
//
// The calling goroutine reads seq and cuts it into batches of WithBatchSize
// elements. Workers, at most WithWorkers at a time, accumulate each batch
// into its own buffer, and finished buffers are folded strictly in batch
// order, so the result is identical to the sequential one.
func SelectParallelSeq[T any](ctx context.Context, seq iter.Seq[T], k int, cmp Comparator[T], optFns ...Option) ([]T, error) {
	o := applyOptions(optFns)
	start := time.Now()
	stats := SelectStats{Mode: ModeParallelSeq, K: k}

	out, err := func() ([]T, error) {
		if seq == nil {
			return nil, invalidArgument("nil sequence")
		}
		if err := o.validate(); err != nil {
			return nil, err
		}
		c, err := ToList(k, cmp, WithInsertion(o.insertion))
		if err != nil {
			return nil, err
		}

		res, err := collectSeq[T, *buffer.Bounded[T], []T](ctx, seq, c, &o)
		stats.Partitions, stats.Skipped = res.parts, res.skipped
		if err != nil {
			return nil, err
		}
		stats.Stats = res.acc.Stats()
		return res.acc.Drain(), nil
	}()

	stats.Retained = len(out)
	o.observe(ctx, stats, time.Since(start), err)
	return out, err
}

// CollectParallel runs c over balanced partitions of src, one per worker
// (WithWorkers, GOMAXPROCS by default), and combines the partial
// accumulators in source order.
func CollectParallel[T, A, R any](ctx context.Context, src []T, c Collector[T, A, R], optFns ...Option) (r R, err error) {
	if c == nil {
		return r, invalidArgument("nil collector")
	}
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return r, err
	}

	res, err := collectSlice(ctx, src, c, o.workers, &o)
	if err != nil {
		return r, err
	}
	return finish(c, res.acc)
}

// CollectParallelSeq runs c over batches of seq on several workers and folds
// the partial accumulators in batch order.
func CollectParallelSeq[T, A, R any](ctx context.Context, seq iter.Seq[T], c Collector[T, A, R], optFns ...Option) (r R, err error) {
	if seq == nil {
		return r, invalidArgument("nil sequence")
	}
	if c == nil {
		return r, invalidArgument("nil collector")
	}
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return r, err
	}

	res, err := collectSeq(ctx, seq, c, &o)
	if err != nil {
		return r, err
	}
	return finish(c, res.acc)
}

func finish[T, A, R any](c Collector[T, A, R], acc A) (r R, err error) {
	defer recoverComparator(&err)
	return c.Finish(acc), nil
}

type collected[A any] struct {
	acc     A
	parts   int
	skipped int64
}

// accumulate folds values into a fresh accumulator, skipping absent ones.
func accumulate[T, A, R any](ctx context.Context, c Collector[T, A, R], values []T, absent func(T) bool) (A, int64, error) {
	acc := c.Supply()
	var skipped int64
	for i, v := range values {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return acc, skipped, err
			}
		}
		if absent != nil && absent(v) {
			skipped++
			continue
		}
		acc = c.Accumulate(acc, v)
	}
	return acc, skipped, nil
}

func collectSlice[T, A, R any](ctx context.Context, src []T, c Collector[T, A, R], parts int, o *options) (collected[A], error) {
	ranges := partition.Ranges(len(src), parts)
	if len(ranges) == 0 {
		if err := ctx.Err(); err != nil {
			return collected[A]{}, err
		}
		return collected[A]{acc: c.Supply()}, nil
	}

	absent := absentFunc[T]()
	accs := make([]A, len(ranges))
	var skipped atomic.Int64

	r := o.newRunner(ctx, 0)
	for i, rg := range ranges {
		r.Go(func(ctx context.Context) error {
			acc, n, err := accumulate(ctx, c, src[rg.Lo:rg.Hi], absent)
			skipped.Add(n)
			accs[i] = acc
			return err
		})
	}
	if err := r.Wait(); err != nil {
		repanic(err)
		return collected[A]{parts: len(ranges), skipped: skipped.Load()}, err
	}

	acc, err := combiner[T, A, R]{c: c, o: o}.reduce(ctx, accs)
	if err != nil {
		repanic(err)
	}
	return collected[A]{acc: acc, parts: len(ranges), skipped: skipped.Load()}, err
}

// batchResult is a finished batch accumulator tagged with its position.
type batchResult[A any] struct {
	seq int
	acc A
}

func collectSeq[T, A, R any](ctx context.Context, seq iter.Seq[T], c Collector[T, A, R], o *options) (collected[A], error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	absent := absentFunc[T]()
	cb := combiner[T, A, R]{c: c, o: o}
	results := make(chan batchResult[A], o.workers)

	var skipped atomic.Int64
	r := o.newRunner(ctx, o.workers)

	type folded struct {
		acc A
		err error
	}
	done := make(chan folded, 1)
	go func() {
		acc, err := foldInOrder(results, cb, cancel)
		done <- folded{acc: acc, err: err}
	}()

	batches := 0
	for batch := range partition.Batches(seq, o.batchSize) {
		if r.Context().Err() != nil {
			break
		}
		n := batches
		batches++
		r.Go(func(ctx context.Context) error {
			acc, s, err := accumulate(ctx, c, batch, absent)
			skipped.Add(s)
			if err != nil {
				return err
			}
			select {
			case results <- batchResult[A]{seq: n, acc: acc}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	werr := r.Wait()
	close(results)
	f := <-done

	res := collected[A]{acc: f.acc, parts: batches, skipped: skipped.Load()}
	// A failed combine cancels the workers, so its error takes precedence
	// over the cancellation they report.
	switch {
	case f.err != nil:
		repanic(f.err)
		return res, f.err
	case werr != nil:
		repanic(werr)
		return res, werr
	}
	if batches == 0 {
		res.acc = c.Supply()
	}
	return res, ctx.Err()
}

// foldInOrder combines batch accumulators in sequence order as they arrive.
// The first failure calls abort to stop the reader and the workers; results
// are still drained afterwards so that no worker blocks.
func foldInOrder[T, A, R any](results <-chan batchResult[A], cb combiner[T, A, R], abort context.CancelFunc) (A, error) {
	var (
		acc     A
		started bool
		next    int
		err     error
	)
	pending := make(map[int]A)

	for res := range results {
		if err != nil {
			continue
		}
		pending[res.seq] = res.acc
		err = guard(func() error {
			for {
				a, ok := pending[next]
				if !ok {
					return nil
				}
				delete(pending, next)
				next++
				if !started {
					acc, started = a, true
					continue
				}
				acc = cb.combine(acc, a)
			}
		})
		if err != nil {
			abort()
		}
	}
	return acc, err
}
