package source

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/topk"
)

func collect(s *Scanner) []*Record {
	var out []*Record
	for rec := range s.All() {
		out = append(out, rec)
	}
	return out
}

func TestScanner(t *testing.T) {
	t.Run("Records", func(t *testing.T) {
		s := NewScanner(strings.NewReader(sample))
		recs := collect(s)
		require.NoError(t, s.Err())
		require.Len(t, recs, 3)
		assert.Equal(t, &Record{Key: "beta", Value: 2, Line: 2}, recs[1])
		assert.Equal(t, 3, s.Lines())
	})

	t.Run("BlankLinesAreAbsent", func(t *testing.T) {
		s := NewScanner(strings.NewReader("a\t1\n\n  \r\nb\t2\r\n"))
		recs := collect(s)
		require.NoError(t, s.Err())
		require.Len(t, recs, 4)
		assert.Nil(t, recs[1])
		assert.Nil(t, recs[2])
		assert.Equal(t, &Record{Key: "b", Value: 2, Line: 4}, recs[3])
	})

	t.Run("Whitespace", func(t *testing.T) {
		s := NewScanner(strings.NewReader("a  1.5   x\n"), WithDelimiter(""), WithField(1), WithKeyField(2))
		recs := collect(s)
		require.NoError(t, s.Err())
		assert.Equal(t, []*Record{{Key: "x", Value: 1.5, Line: 1}}, recs)
	})

	t.Run("CSV", func(t *testing.T) {
		s := NewScanner(strings.NewReader("1,k,2.5\n"), WithDelimiter(","), WithField(2), WithKeyField(1))
		assert.Equal(t, []*Record{{Key: "k", Value: 2.5, Line: 1}}, collect(s))
	})

	t.Run("BadNumber", func(t *testing.T) {
		s := NewScanner(strings.NewReader("a\t1\nb\tabc\nc\t3\n"))
		recs := collect(s)
		assert.Len(t, recs, 1)

		var perr *ParseError
		require.ErrorAs(t, s.Err(), &perr)
		assert.Equal(t, 2, perr.Line)
		assert.Equal(t, "b\tabc", perr.Text)
		assert.ErrorIs(t, s.Err(), strconv.ErrSyntax)
		assert.Contains(t, s.Err().Error(), "line 2")
	})

	t.Run("MissingColumn", func(t *testing.T) {
		s := NewScanner(strings.NewReader("only-key\n"))
		collect(s)
		var perr *ParseError
		require.True(t, errors.As(s.Err(), &perr))
		assert.Equal(t, 1, perr.Line)
	})

	t.Run("LineTooLong", func(t *testing.T) {
		s := NewScanner(strings.NewReader(strings.Repeat("x", 100)+"\t1\n"), WithMaxLineSize(16))
		collect(s)
		assert.Error(t, s.Err())
	})

	t.Run("StopEarly", func(t *testing.T) {
		s := NewScanner(strings.NewReader(sample))
		for range s.All() {
			break
		}
		assert.NoError(t, s.Err())
		assert.Equal(t, 1, s.Lines())
	})
}

func TestScannerSelect(t *testing.T) {
	input := "a\t5\n\nb\t9\nc\t1\nd\t9\n\ne\t7\n"

	s := NewScanner(strings.NewReader(input))
	best, err := topk.SelectSeq(s.All(), 3, ByValueDesc)
	require.NoError(t, err)
	require.NoError(t, s.Err())

	keys := make([]string, len(best))
	for i, r := range best {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"b", "d", "e"}, keys)

	s = NewScanner(strings.NewReader(input))
	best, err = topk.SelectParallelSeq(context.Background(), s.All(), 2, ByValueAsc, topk.WithBatchSize(2))
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "c", best[0].Key)
	assert.Equal(t, "a", best[1].Key)
}
