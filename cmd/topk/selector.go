package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/hupe1980/topk"
	"github.com/hupe1980/topk/buffer"
	"github.com/hupe1980/topk/internal/resource"
	"github.com/hupe1980/topk/source"
	miniostore "github.com/hupe1980/topk/source/minio"
	s3store "github.com/hupe1980/topk/source/s3"
)

// remoteFunc opens the store for a bucket.
type remoteFunc func(ctx context.Context, bucket string) (source.Store, error)

// Selector selects the best records across several inputs.
type Selector struct {
	cfg     Config
	cmp     topk.Comparator[*source.Record]
	logger  *topk.Logger
	metrics topk.MetricsCollector
	ctrl    *resource.Controller

	local  source.Store
	remote remoteFunc

	mu     sync.Mutex
	stores map[string]source.Store
}

// NewSelector creates a Selector. cfg must be valid.
func NewSelector(cfg Config, logger *topk.Logger, metrics topk.MetricsCollector) (*Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cmp, _ := cfg.comparator()

	if logger == nil {
		logger = topk.NoopLogger()
	}
	if metrics == nil {
		metrics = topk.NoopMetricsCollector{}
	}

	s := &Selector{
		cfg:     cfg,
		cmp:     cmp,
		logger:  logger,
		metrics: metrics,
		ctrl: resource.NewController(resource.Config{
			MaxConcurrentInputs: int64(cfg.Input.Concurrency),
			IOLimitBytesPerSec:  cfg.Input.ReadLimit,
		}),
		local:  source.NewLocalStore(""),
		stores: make(map[string]source.Store),
	}
	s.remote = s.openRemote
	return s, nil
}

// Run selects the best K records of every input and writes the K best of
// their union to w, one "key<delimiter>value" line each. Records that tie
// keep input order. All input failures are reported together.
func (s *Selector) Run(ctx context.Context, inputs []string, w io.Writer) error {
	start := time.Now()

	pool := topk.NewWorkerPool(s.cfg.Parallel.Workers)
	defer pool.Close()

	results := make([][]*source.Record, len(inputs))

	var g multierror.Group
	for i, in := range inputs {
		g.Go(func() error {
			if err := s.ctrl.AcquireInput(ctx); err != nil {
				return err
			}
			defer s.ctrl.ReleaseInput()

			recs, err := s.selectInput(ctx, in, pool)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait().ErrorOrNil(); err != nil {
		return err
	}

	best := buffer.MergeSorted(s.cfg.K, s.cmp, results...)
	ps := pool.Stats()
	s.logger.Info("selection finished",
		"inputs", len(inputs),
		"results", len(best),
		"workers", ps.Workers,
		"tasks", ps.Completed,
		"elapsed", time.Since(start))

	bw := bufio.NewWriter(w)
	delim := s.cfg.outputDelimiter()
	for _, r := range best {
		bw.WriteString(r.Key)
		bw.WriteString(delim)
		bw.WriteString(strconv.FormatFloat(r.Value, 'f', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (s *Selector) selectInput(ctx context.Context, in string, pool *topk.WorkerPool) (recs []*source.Record, err error) {
	loc, err := source.ParseLocation(in)
	if err != nil {
		return nil, err
	}

	store, err := s.store(ctx, loc)
	if err != nil {
		return nil, err
	}

	blob, err := store.Open(ctx, loc.Key)
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{blob}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i].Close(); cerr != nil {
				err = multierror.Append(err, cerr)
			}
		}
	}()

	rc, err := source.NewReader(ctx, blob)
	if err != nil {
		return nil, err
	}
	closers = append(closers, rc)

	dr, err := source.Decompress(loc.Key, source.SharedLimitReader(ctx, rc, s.ctrl))
	if err != nil {
		return nil, err
	}
	closers = append(closers, dr)

	logger := s.logger.WithInput(in)
	opts := append(s.cfg.selectOptions(),
		topk.WithWorkerPool(pool),
		topk.WithLogger(logger),
		topk.WithMetricsCollector(s.metrics))

	sc := source.NewScanner(dr, s.cfg.scannerOptions()...)
	recs, err = topk.SelectParallelSeq(ctx, sc.All(), s.cfg.K, s.cmp, opts...)
	if err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	logger.WithCount(sc.Lines()).Debug("input selected", "results", len(recs))
	return recs, nil
}

func (s *Selector) store(ctx context.Context, loc source.Location) (source.Store, error) {
	if !loc.Remote() {
		return s.local, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores[loc.Bucket]; ok {
		return st, nil
	}
	st, err := s.remote(ctx, loc.Bucket)
	if err != nil {
		return nil, err
	}
	s.stores[loc.Bucket] = st
	return st, nil
}

func (s *Selector) openRemote(ctx context.Context, bucket string) (source.Store, error) {
	cfg := s.cfg.S3
	if cfg.Endpoint != "" {
		client, err := miniostore.NewClient(cfg.Endpoint, miniostore.ClientOptions{
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
		})
		if err != nil {
			return nil, err
		}
		return miniostore.NewStore(client, bucket, ""), nil
	}

	return s3store.NewStoreFromConfig(ctx, bucket, "", s3store.ConfigOptions{Region: cfg.Region}, s.cfg.s3Options()...)
}
