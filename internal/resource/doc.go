// Package resource bounds the resources a multi-input selection consumes.
//
// A Controller limits two things:
//
//   - Inputs: how many inputs are read and selected concurrently (weighted
//     semaphore).
//   - IO: the combined read throughput of all inputs (token bucket).
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentInputs: 4,
//	    IOLimitBytesPerSec:  64 << 20,
//	})
//
//	if err := rc.AcquireInput(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseInput()
//
//	r := resource.NewRateLimitedReader(ctx, body, rc)
//
// All methods are safe for concurrent use and treat a nil Controller as
// unlimited.
package resource
