package source

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/topk/internal/resource"
)

func TestLimitReader(t *testing.T) {
	t.Run("Unlimited", func(t *testing.T) {
		r := strings.NewReader("abc")
		assert.Same(t, r, LimitReader(context.Background(), r, 0))
	})

	t.Run("Limited", func(t *testing.T) {
		r := LimitReader(context.Background(), strings.NewReader("a\t1\nb\t2\n"), 1<<20)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "a\t1\nb\t2\n", string(data))
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := LimitReader(ctx, strings.NewReader("abc"), 1)
		_, err := io.ReadAll(r)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSharedLimitReader(t *testing.T) {
	src := strings.NewReader("x")
	assert.Same(t, src, SharedLimitReader(context.Background(), src, nil))

	unlimited := resource.NewController(resource.Config{})
	assert.Same(t, src, SharedLimitReader(context.Background(), src, unlimited))

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	a := SharedLimitReader(context.Background(), strings.NewReader("first"), rc)
	b := SharedLimitReader(context.Background(), strings.NewReader("second"), rc)

	da, err := io.ReadAll(a)
	require.NoError(t, err)
	db, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, "first", string(da))
	assert.Equal(t, "second", string(db))
}
