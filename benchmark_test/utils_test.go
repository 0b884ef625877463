package benchmark_test

import (
	"container/heap"
	"sort"

	"github.com/hupe1980/topk/testutil"
)

// entryHeap is a min-heap by value so the worst retained entry is popped first.
type entryHeap []testutil.Entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].Value < h[j].Value }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(testutil.Entry)) }
func (h *entryHeap) Pop() any          { old := *h; n := len(old); x := old[n-1]; *h = old[:n-1]; return x }

// heapTopK is the classic container/heap selection, used as a baseline.
func heapTopK(data []testutil.Entry, k int) []testutil.Entry {
	if k <= 0 {
		return []testutil.Entry{}
	}
	h := make(entryHeap, 0, k)
	for _, e := range data {
		if len(h) < k {
			heap.Push(&h, e)
			continue
		}
		if e.Value > h[0].Value {
			h[0] = e
			heap.Fix(&h, 0)
		}
	}

	out := make([]testutil.Entry, len(h))
	copy(out, h)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
