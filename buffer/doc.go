// Package buffer provides the bounded selection buffer at the heart of top-k
// selection.
//
// A Bounded buffer holds at most k elements, always sorted best-first under a
// caller supplied comparator. Once full, the last element is the worst
// retained one and every candidate that is not strictly better is rejected
// with a single comparison:
//
//	b, _ := buffer.New(3, cmp.Compare[int])
//	for _, v := range values {
//	    b.Offer(v)
//	}
//	best := b.Drain() // the three smallest values, ascending
//
// # Insertion Strategies
//
// Two strategies locate the insertion point once a candidate is accepted:
//
//   - LinearInsertion: walks from the worst end; cheap when k is small.
//   - BinaryInsertion: binary search, O(log k) comparisons; preferable when
//     the comparator is expensive.
//
// Both strategies insert after every element that compares equal to the
// candidate, so they always produce identical buffers.
//
// # Merging
//
// Merge combines two buffers into a new one holding the best k of their
// union. It is associative, which makes it usable as the combine step of a
// parallel reduction. Ties are resolved in favour of the receiver.
// MergeSorted performs the same operation over any number of sorted slices.
package buffer
