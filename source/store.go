package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// Store opens immutable input blobs by name. Implementations must be safe for
// concurrent use.
type Store interface {
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to an input.
type Blob interface {
	io.Closer

	// Size returns the size of the blob in bytes.
	Size() int64

	// ReadRange returns a reader over [off, off+length), clipped to the end
	// of the blob.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// Mappable is implemented by blobs whose contents are directly addressable.
type Mappable interface {
	// Bytes returns the blob contents without copying. The slice is valid
	// until the blob is closed.
	Bytes() ([]byte, error)
}

// NewReader returns a reader over the whole blob.
func NewReader(ctx context.Context, b Blob) (io.ReadCloser, error) {
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if b.Size() == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return b.ReadRange(ctx, 0, b.Size())
}

// Location identifies an input: a bucket and key for object stores, or a
// path with an empty bucket for local files.
type Location struct {
	Bucket string
	Key    string
}

// Remote reports whether the location names an object.
func (l Location) Remote() bool { return l.Bucket != "" }

func (l Location) String() string {
	if l.Remote() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// ParseLocation parses "s3://bucket/key" or a local path.
func ParseLocation(s string) (Location, error) {
	rest, ok := strings.CutPrefix(s, "s3://")
	if !ok {
		if s == "" {
			return Location{}, fmt.Errorf("empty input path")
		}
		return Location{Key: s}, nil
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid object url %q: want s3://bucket/key", s)
	}
	return Location{Bucket: bucket, Key: key}, nil
}
