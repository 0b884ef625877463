package resource

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentInputs is the maximum number of inputs processed at once.
	// If 0, defaults to 1.
	MaxConcurrentInputs int64

	// IOLimitBytesPerSec is the maximum combined read throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages input concurrency and read throughput.
type Controller struct {
	cfg Config

	inputSem  *semaphore.Weighted
	ioLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentInputs <= 0 {
		cfg.MaxConcurrentInputs = 1
	}

	c := &Controller{
		cfg:      cfg,
		inputSem: semaphore.NewWeighted(cfg.MaxConcurrentInputs),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the effective limits.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireInput reserves an input slot, blocking while all slots are busy.
func (c *Controller) AcquireInput(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.inputSem.Acquire(ctx, 1)
}

// TryAcquireInput reserves an input slot without blocking.
func (c *Controller) TryAcquireInput() bool {
	if c == nil {
		return true
	}
	return c.inputSem.TryAcquire(1)
}

// ReleaseInput releases an input slot.
func (c *Controller) ReleaseInput() {
	if c == nil {
		return
	}
	c.inputSem.Release(1)
}

// IOBurst returns the largest number of bytes a single AcquireIO call may
// request, or 0 if IO is unlimited.
func (c *Controller) IOBurst() int {
	if c == nil || c.ioLimiter == nil {
		return 0
	}
	return c.ioLimiter.Burst()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// bytes must not exceed IOBurst.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}

// TryAcquireIO attempts to acquire IO tokens without blocking.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), bytes)
}
