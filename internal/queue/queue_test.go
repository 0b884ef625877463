package queue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue(t *testing.T) {
	t.Run("MinHeap", func(t *testing.T) {
		pq := New(4, func(a, b int) bool { return a < b })

		pq.Push(10)
		pq.Push(5)
		pq.Push(20)
		require.Equal(t, 3, pq.Len())

		top, ok := pq.Top()
		require.True(t, ok)
		assert.Equal(t, 5, top)

		for _, want := range []int{5, 10, 20} {
			got, ok := pq.Pop()
			require.True(t, ok)
			assert.Equal(t, want, got)
		}

		_, ok = pq.Pop()
		assert.False(t, ok)
	})

	t.Run("MaxHeap", func(t *testing.T) {
		pq := New(4, func(a, b int) bool { return a > b })

		pq.Push(10)
		pq.Push(5)
		pq.Push(20)

		top, _ := pq.Top()
		assert.Equal(t, 20, top)
	})

	t.Run("ReplaceTop", func(t *testing.T) {
		pq := New(4, func(a, b int) bool { return a < b })
		pq.ReplaceTop(7) // empty queue behaves like Push
		pq.Push(3)
		pq.Push(9)

		pq.ReplaceTop(11)

		var got []int
		for pq.Len() > 0 {
			v, _ := pq.Pop()
			got = append(got, v)
		}
		assert.Equal(t, []int{7, 9, 11}, got)
	})

	t.Run("Reset", func(t *testing.T) {
		pq := New(1, func(a, b int) bool { return a < b })
		pq.Push(1)
		pq.Reset()
		assert.Equal(t, 0, pq.Len())
		_, ok := pq.Top()
		assert.False(t, ok)
	})
}

func TestPriorityQueueRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pq := New(0, func(a, b int) bool { return a < b })

	values := make([]int, 1000)
	for i := range values {
		values[i] = rng.Intn(500)
		pq.Push(values[i])
	}
	sort.Ints(values)

	for _, want := range values {
		got, ok := pq.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}
