package topk

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/hupe1980/topk/buffer"
)

var (
	// ErrInvalidArgument is returned for a negative k, partition count or
	// batch size, and for a nil comparator, sequence, list or collector.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrComparatorFailure matches every *ComparatorError via errors.Is.
	ErrComparatorFailure = errors.New("comparator failure")

	// ErrPoolClosed is returned when work is submitted to a closed WorkerPool.
	ErrPoolClosed = errors.New("worker pool is closed")
)

// ComparatorError reports that the comparator failed during selection.
//
// The comparator's own error can be accessed via errors.Unwrap.
type ComparatorError struct {
	cause error
}

func (e *ComparatorError) Error() string {
	return fmt.Sprintf("comparator failure: %v", e.cause)
}

func (e *ComparatorError) Unwrap() error { return e.cause }

// Is reports whether target is ErrComparatorFailure.
func (e *ComparatorError) Is(target error) bool { return target == ErrComparatorFailure }

// comparatorPanic carries an error out of a Fallible comparator.
type comparatorPanic struct {
	err error
}

// recoverComparator turns a comparatorPanic into a *ComparatorError stored in
// errp. Any other panic keeps unwinding.
func recoverComparator(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if cp, ok := r.(comparatorPanic); ok {
		*errp = &ComparatorError{cause: cp.err}
		return
	}
	panic(r)
}

// workerPanic carries a panic raised on a worker goroutine back to the caller.
type workerPanic struct {
	value any
	stack []byte
}

func (e *workerPanic) Error() string {
	return fmt.Sprintf("panic in worker: %v", e.value)
}

// guard runs fn and converts panics into errors so they can cross goroutines.
func guard(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if cp, ok := r.(comparatorPanic); ok {
			err = &ComparatorError{cause: cp.err}
			return
		}
		err = &workerPanic{value: r, stack: debug.Stack()}
	}()
	return fn()
}

// repanic re-raises a worker panic on the calling goroutine.
func repanic(err error) {
	var wp *workerPanic
	if errors.As(err, &wp) {
		panic(wp.value)
	}
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, buffer.ErrInvalidCapacity) || errors.Is(err, buffer.ErrNilComparator) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return err
}
