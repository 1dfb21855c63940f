package Trees

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"
)

// Sequence is the rank addressed part shared by Treap and Sorted. Ranks start
// from 1. Methods returning a bool report whether the given rank existed; those
// returning an Iter report it through Iter.Valid.
// Methods implemented recursively are noted, otherwise they are iterative.
type Sequence[T any, S constraints.Unsigned] interface {
	//Size of the tree.
	Size() S
	//EraseAt removes the element at rank k.
	EraseAt(k S) bool
	//Find the element at rank k.
	Find(k S) Iter[T, S]
	//First element.
	First() Iter[T, S]
	//Last element.
	Last() Iter[T, S]
	//InOrder calls f on each element in order until f returns false.
	InOrder(f func(*T) bool, st []S) []S
	//All ranks and elements in order.
	All() iter.Seq2[S, T]
	//Values in order.
	Values() []T
	//Clear the tree.
	Clear(reset bool)
	//Corrupt returns whether the tree has corrupt structures, when the links or
	//sizes at some node violate the properties of that specific implementation.
	//This is to be distinguished from whether the tree is balanced or not.
	Corrupt() bool
}

var (
	_ Sequence[int, uint] = (*Treap[int, uint])(nil)
	_ Sequence[int, uint] = (*Sorted[int, uint])(nil)
)

// UnsortedSliceError is panicked by SortedFrom when the slice isn't sorted:
// Prev at index At compares greater than Next at At+1.
type UnsortedSliceError[T any] struct {
	At         int
	Prev, Next T
}

func (e UnsortedSliceError[T]) Error() string {
	return fmt.Sprintf("slice isn't sorted at index %d: %v > %v", e.At, e.Prev, e.Next)
}

// OversizedSliceError is panicked by From and SortedFrom when the slice has more
// elements than the size type allows.
type OversizedSliceError struct {
	Len int
	Max uint64
}

func (e OversizedSliceError) Error() string {
	return fmt.Sprintf("slice of %d elements exceeds the capacity of %d", e.Len, e.Max)
}
