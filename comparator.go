package topk

import (
	"cmp"
	"container/list"
	"iter"
	"reflect"
)

// Comparator orders elements for selection. A negative result means a ranks
// before (is better than) b, zero means they are equal and a positive result
// means a ranks after b. It follows the slices.SortFunc convention.
//
// A comparator must be consistent across calls; inconsistent comparators
// yield unspecified, but memory-safe, results.
type Comparator[T any] func(a, b T) int

// Ascending ranks smaller values first.
func Ascending[T cmp.Ordered]() Comparator[T] {
	return cmp.Compare[T]
}

// Descending ranks larger values first.
func Descending[T cmp.Ordered]() Comparator[T] {
	return func(a, b T) int { return cmp.Compare(b, a) }
}

// Reverse inverts the order of c.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) int { return c(b, a) }
}

// By orders elements by the key extracted from them.
func By[T, K any](key func(T) K, c func(a, b K) int) Comparator[T] {
	return func(a, b T) int { return c(key(a), key(b)) }
}

// Fallible adapts a comparator that can fail. When f returns an error, the
// selection in progress is aborted and reports a *ComparatorError wrapping
// it. The resulting comparator must only be used with the functions of this
// package, which recover the failure.
func Fallible[T any](f func(a, b T) (int, error)) Comparator[T] {
	return func(a, b T) int {
		c, err := f(a, b)
		if err != nil {
			panic(comparatorPanic{err: err})
		}
		return c
	}
}

// FromList returns a single-pass sequence over the values of a linked list.
// Nil values are yielded as the zero value of T, which is absent for
// nillable element types. It returns nil for a nil list.
func FromList[T any](l *list.List) iter.Seq[T] {
	if l == nil {
		return nil
	}
	return func(yield func(T) bool) {
		for e := l.Front(); e != nil; e = e.Next() {
			var v T
			if e.Value != nil {
				v = e.Value.(T)
			}
			if !yield(v) {
				return
			}
		}
	}
}

// absentFunc returns a predicate reporting nil elements, or nil when T
// cannot hold nil. The decision is made once per call, not per element.
func absentFunc[T any]() func(T) bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Interface:
		return func(v T) bool { return any(v) == nil }
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return func(v T) bool { return reflect.ValueOf(any(v)).IsNil() }
	default:
		return nil
	}
}
