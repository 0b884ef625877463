package prommetrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/topk"
	"github.com/hupe1980/topk/buffer"
)

func TestRecordSelect(t *testing.T) {
	c := New("test")

	c.RecordSelect(topk.SelectStats{
		Mode:     topk.ModeSequential,
		K:        3,
		Stats:    buffer.Stats{Offered: 10, Inserted: 5, Rejected: 5, Evicted: 2},
		Skipped:  1,
		Retained: 3,
	}, 2*time.Millisecond, nil)
	c.RecordSelect(topk.SelectStats{Mode: topk.ModeSequential, Stats: buffer.Stats{Offered: 99}}, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.selections.WithLabelValues(topk.ModeSequential, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.selections.WithLabelValues(topk.ModeSequential, "error")))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.elements.WithLabelValues("offered")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.elements.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.elements.WithLabelValues("evicted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.elements.WithLabelValues("skipped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.retained))
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := New("topk")
	require.NoError(t, reg.Register(c))

	c.RecordSelect(topk.SelectStats{Mode: topk.ModeParallel, Retained: 1}, time.Millisecond, nil)
	c.RecordCombine(time.Microsecond)

	expected := `
# HELP topk_results_total Total elements returned by successful selections
# TYPE topk_results_total counter
topk_results_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "topk_results_total"))

	n, err := testutil.GatherAndCount(reg, "topk_combine_duration_seconds", "topk_selection_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWithSelectParallel(t *testing.T) {
	c := New("topk")

	src := make([]int, 1000)
	for i := range src {
		src[i] = i
	}
	got, err := topk.SelectParallel(context.Background(), src, 3, topk.Descending[int](), 4,
		topk.WithMetricsCollector(c))
	require.NoError(t, err)
	assert.Equal(t, []int{999, 998, 997}, got)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.selections.WithLabelValues(topk.ModeParallel, "success")))
	assert.Equal(t, 1000.0, testutil.ToFloat64(c.elements.WithLabelValues("offered")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.retained))

	// Four partitions merge pairwise in three combines.
	m := &dto.Metric{}
	require.NoError(t, c.combines.Write(m))
	assert.Equal(t, uint64(3), m.GetHistogram().GetSampleCount())
}
