package source

import (
	"bytes"
	"context"
	"io"
	"path/filepath"

	"github.com/hupe1980/topk/internal/mmap"
)

// LocalStore implements Store using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore. Relative names are resolved
// against root; an empty root means the working directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Open memory-maps the named file for a sequential scan.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := name
	if !filepath.IsAbs(name) && s.root != "" {
		path = filepath.Join(s.root, name)
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	// Access hints are advisory.
	_ = m.Advise(mmap.AccessSequential)

	return &localBlob{m: m}, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return int64(b.m.Size())
}

func (b *localBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := b.m.Range(off, length)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *localBlob) Bytes() ([]byte, error) {
	return b.m.Range(0, int64(b.m.Size()))
}
