package topk

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/hupe1980/topk/buffer"
)

// DefaultBatchSize is the number of elements handed to a worker at a time by
// SelectParallelSeq and CollectParallelSeq.
const DefaultBatchSize = 4096

// CombineStrategy controls how partial results of a parallel selection are
// combined.
type CombineStrategy uint8

const (
	// CombineTree combines partials pairwise, level by level, running the
	// combines of one level concurrently.
	CombineTree CombineStrategy = iota

	// CombineFold combines partials left to right on the calling goroutine.
	CombineFold
)

func (s CombineStrategy) String() string {
	switch s {
	case CombineTree:
		return "tree"
	case CombineFold:
		return "fold"
	default:
		return "unknown"
	}
}

// ParseCombineStrategy parses the output of CombineStrategy.String.
func ParseCombineStrategy(s string) (CombineStrategy, error) {
	switch s {
	case "tree", "":
		return CombineTree, nil
	case "fold":
		return CombineFold, nil
	default:
		return 0, invalidArgument("unknown combine strategy %q", s)
	}
}

// Option configures a selection.
type Option func(o *options)

type options struct {
	insertion        buffer.Insertion
	combine          CombineStrategy
	batchSize        int
	workers          int
	pool             *WorkerPool
	logger           *Logger
	metricsCollector MetricsCollector
}

// WithInsertion selects how the bounded buffer finds insertion points.
func WithInsertion(ins buffer.Insertion) Option {
	return func(o *options) {
		o.insertion = ins
	}
}

// WithCombine sets the combine strategy for parallel selections.
func WithCombine(s CombineStrategy) Option {
	return func(o *options) {
		o.combine = s
	}
}

// WithBatchSize sets how many elements of a sequence each worker task
// receives. Zero restores DefaultBatchSize; negative sizes are rejected.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithWorkers bounds the number of concurrent worker tasks of
// SelectParallelSeq and CollectParallelSeq. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithWorkerPool runs partition and combine tasks on a shared pool instead
// of spawning goroutines per call. The pool is not closed by the selection.
func WithWorkerPool(pool *WorkerPool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLogLevel installs a text logger on stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(os.Stderr, level)
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metricsCollector = mc
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		insertion:        buffer.LinearInsertion,
		combine:          CombineTree,
		batchSize:        DefaultBatchSize,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

func (o *options) validate() error {
	if o.batchSize < 0 {
		return invalidArgument("batch size must be non-negative, got %d", o.batchSize)
	}
	if o.batchSize == 0 {
		o.batchSize = DefaultBatchSize
	}
	if o.workers < 0 {
		return invalidArgument("workers must be non-negative, got %d", o.workers)
	}
	if o.workers == 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return nil
}
