package topk

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// runner starts tasks and waits for them. The first failing task cancels the
// context handed to the others; Wait returns its error.
type runner interface {
	Context() context.Context
	Go(fn func(ctx context.Context) error)
	Wait() error
}

// newRunner returns a runner on the configured worker pool, or on fresh
// goroutines when there is none. limit bounds concurrent goroutines and is
// ignored for pools, whose size is the bound.
func (o *options) newRunner(ctx context.Context, limit int) runner {
	if o.pool != nil {
		ctx, cancel := context.WithCancel(ctx)
		return &poolRunner{pool: o.pool, ctx: ctx, cancel: cancel}
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	return &groupRunner{g: g, ctx: gctx}
}

type groupRunner struct {
	g   *errgroup.Group
	ctx context.Context
}

func (r *groupRunner) Context() context.Context { return r.ctx }

func (r *groupRunner) Go(fn func(ctx context.Context) error) {
	r.g.Go(func() error {
		return guard(func() error { return fn(r.ctx) })
	})
}

func (r *groupRunner) Wait() error { return r.g.Wait() }

type poolRunner struct {
	pool   *WorkerPool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	err    error
}

func (r *poolRunner) Context() context.Context { return r.ctx }

func (r *poolRunner) Go(fn func(ctx context.Context) error) {
	r.wg.Add(1)
	err := r.pool.Submit(r.ctx, func() {
		defer r.wg.Done()
		if err := guard(func() error { return fn(r.ctx) }); err != nil {
			r.fail(err)
		}
	})
	if err != nil {
		r.wg.Done()
		r.fail(err)
	}
}

func (r *poolRunner) fail(err error) {
	r.once.Do(func() {
		r.err = err
		r.cancel()
	})
}

func (r *poolRunner) Wait() error {
	r.wg.Wait()
	r.cancel()
	return r.err
}
