package source

import (
	"context"
	"io"

	"github.com/hupe1980/topk/internal/resource"
)

// LimitReader throttles r to bytesPerSec. A non-positive rate returns r
// unchanged. Reads fail with the context error once ctx is done.
func LimitReader(ctx context.Context, r io.Reader, bytesPerSec int64) io.Reader {
	if bytesPerSec <= 0 {
		return r
	}
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: bytesPerSec})
	return resource.NewRateLimitedReader(ctx, r, rc)
}

// SharedLimitReader throttles r against a controller shared by several
// readers, so their combined throughput stays within its limit.
func SharedLimitReader(ctx context.Context, r io.Reader, rc *resource.Controller) io.Reader {
	if rc == nil || rc.IOBurst() == 0 {
		return r
	}
	return resource.NewRateLimitedReader(ctx, r, rc)
}
