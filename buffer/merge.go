package buffer

import "github.com/hupe1980/topk/internal/queue"

// MergeSorted merges lists that are each sorted best-first under cmp and
// returns the first k elements of the combined order.
//
// When elements compare equal, the one from the lower list index comes first,
// and within a list the original order is kept. The inputs are not modified.
// A negative k is treated as zero.
func MergeSorted[T any](k int, cmp func(a, b T) int, lists ...[]T) []T {
	if k <= 0 {
		return []T{}
	}

	// Filter out empty lists.
	active := make([][]T, 0, len(lists))
	for _, l := range lists {
		if len(l) > 0 {
			active = append(active, l)
		}
	}

	switch len(active) {
	case 0:
		return []T{}
	case 1:
		l := active[0]
		return append(make([]T, 0, min(k, len(l))), l[:min(k, len(l))]...)
	case 2:
		a, b := active[0], active[1]
		return mergeInto(make([]T, 0, min(k, len(a)+len(b))), a, b, k, cmp)
	}

	total := 0
	for _, l := range active {
		total += len(l)
	}

	// N-way merge: the heap holds one cursor per list.
	type cursor struct {
		list int
		elem int
	}
	less := func(x, y cursor) bool {
		c := cmp(active[x.list][x.elem], active[y.list][y.elem])
		if c != 0 {
			return c < 0
		}
		return x.list < y.list
	}
	pq := queue.New(len(active), less)
	for i := range active {
		pq.Push(cursor{list: i})
	}

	out := make([]T, 0, min(k, total))
	for len(out) < k {
		top, ok := pq.Top()
		if !ok {
			break
		}
		out = append(out, active[top.list][top.elem])
		if top.elem+1 < len(active[top.list]) {
			pq.ReplaceTop(cursor{list: top.list, elem: top.elem + 1})
		} else {
			pq.Pop()
		}
	}
	return out
}
