package topk

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs partition accumulations and batch tasks on a fixed set of
// goroutines. Selections that share a pool through WithWorkerPool never run
// more than Size accumulations at once between them.
type WorkerPool struct {
	size  int
	tasks chan func()
	wg    sync.WaitGroup

	// mu guards closed and orders Close after in-flight Submit calls.
	mu     sync.RWMutex
	closed bool

	submitted atomic.Int64
	running   atomic.Int64
	completed atomic.Int64
}

// PoolStats is a snapshot of a WorkerPool's task counters.
type PoolStats struct {
	Workers   int
	Submitted int64
	Running   int64
	Completed int64
}

// Queued returns the number of tasks waiting for a worker.
func (s PoolStats) Queued() int64 {
	return s.Submitted - s.Running - s.Completed
}

// NewWorkerPool starts a pool of size goroutines. A non-positive size means
// runtime.GOMAXPROCS(0). Up to 2*size tasks wait in the queue before Submit
// blocks.
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	wp := &WorkerPool{
		size:  size,
		tasks: make(chan func(), size*2),
	}

	wp.wg.Add(size)
	for range size {
		go wp.work()
	}
	return wp
}

// Size returns the number of worker goroutines.
func (wp *WorkerPool) Size() int { return wp.size }

// Stats returns the current task counters.
func (wp *WorkerPool) Stats() PoolStats {
	// Load in pipeline order so that Submitted covers the other two.
	completed := wp.completed.Load()
	running := wp.running.Load()
	return PoolStats{
		Workers:   wp.size,
		Submitted: wp.submitted.Load(),
		Running:   running,
		Completed: completed,
	}
}

func (wp *WorkerPool) work() {
	defer wp.wg.Done()

	for task := range wp.tasks {
		wp.running.Add(1)
		task()
		wp.running.Add(-1)
		wp.completed.Add(1)
	}
}

// Submit enqueues a task, blocking while the queue is full.
//
// It returns ErrPoolClosed if the pool is closed and the context error if ctx
// is done before the task could be enqueued. Tasks must not call Submit on
// the same pool.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	wp.submitted.Add(1)
	select {
	case wp.tasks <- task:
		return nil
	case <-ctx.Done():
		wp.submitted.Add(-1)
		return ctx.Err()
	}
}

// Close stops accepting tasks, runs the ones already queued and waits for the
// workers to exit. It is safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
}
