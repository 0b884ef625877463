package topk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Select([]int{3, 1, 2}, 2, Ascending[int](), WithLogger(logger.WithCount(3)))
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "selection completed", rec["msg"])
	assert.Equal(t, ModeSequential, rec["mode"])
	assert.EqualValues(t, 2, rec["k"])
	assert.EqualValues(t, 2, rec["results"])
	assert.EqualValues(t, 3, rec["count"])
}

func TestLoggerFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	logger.WithInput("a.tsv").LogSelect(context.Background(), SelectStats{Mode: ModeParallel, K: 5}, errors.New("boom"))
	assert.Contains(t, buf.String(), "selection failed")
	assert.Contains(t, buf.String(), "error=boom")
	assert.Contains(t, buf.String(), "input=a.tsv")

	buf.Reset()
	logger.LogCombine(context.Background(), CombineFold, 4)
	assert.Empty(t, buf.String(), "combine logs at debug level")
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.WithInput("s3://b/k").Warn("slow input")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "slow input", rec["msg"])
	assert.Equal(t, "s3://b/k", rec["input"])
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, slog.LevelDebug)

	logger.LogCombine(context.Background(), CombineTree, 3)
	assert.Contains(t, buf.String(), "combining partial results")
	assert.Contains(t, buf.String(), "strategy=tree")
	assert.Contains(t, buf.String(), "partials=3")
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
