package Trees

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
)

// Treap is a sequence stored in an implicit key treap: elements are addressed by
// their rank, starting from 1, and a contiguous range of ranks can be reversed in
// O(log n) by flagging the range's subtree instead of touching its nodes.
// T is the type of the elements, S is the type used for sizes and ranks; a treap
// holds at most ^S(0)-1 elements, inserts beyond that are refused.
// Balance is only expected: with priorities drawn from src, D is O(log n) on average.
// A Treap isn't safe for concurrent use.
type Treap[T any, S constraints.Unsigned] struct {
	base[T, S]
}

// New creates an empty Treap with room for hint elements. Priorities are drawn from
// src; a nil src is seeded from the clock. Pass rand.NewSource(seed) for
// reproducible shapes.
func New[T any, S constraints.Unsigned](hint S, src rand.Source) *Treap[T, S] {
	return &Treap[T, S]{makeBase[T](hint, src)}
}

// From a given value array, directly build a treap holding vs in order. The array is
// handed to the treap and it mustn't be modified by the caller later.
// OversizedSliceError is panicked if len(vs) exceeds ^S(0)-1.
// Time: O(n).
func From[T any, S constraints.Unsigned](vs []T, src rand.Source) *Treap[T, S] {
	checkLen[S](len(vs))
	t := New[T, S](0, src)
	t.build(vs)
	return t
}

// insertAt places the detached node ni at rank k of the subtree *curI. Recursive.
func (u *Treap[T, S]) insertAt(curI *S, ni, k S) {
	cur := *curI
	if cur == 0 {
		*curI = ni
		return
	}
	u.lazy(cur)
	if n := &u.ifs[cur]; u.ifs[ni].prio < n.prio {
		u.ifs[ni].l, u.ifs[ni].r = u.splitAt(cur, k)
		*curI = ni
	} else if ls := u.ifs[n.l].sz; ls >= k-1 {
		u.insertAt(&n.l, ni, k)
	} else {
		u.insertAt(&n.r, ni, k-ls-1)
	}
	u.update(*curI)
}

// InsertAt puts v at rank k, 1<=k<=Size()+1; the elements from rank k on move one
// rank up. Returns false and does nothing if k is out of range or the treap is full.
// Time: O(D)
func (u *Treap[T, S]) InsertAt(k S, v T) bool {
	if k == 0 || k > u.Size()+1 || u.full() {
		return false
	}
	ni := u.alloc(v)
	u.insertAt(&u.root, ni, k)
	u.fixRoot()
	return true
}

// Append v after the last element. False if the treap is full.
func (u *Treap[T, S]) Append(v T) bool {
	return u.InsertAt(u.Size()+1, v)
}

// PushFront puts v before the first element. False if the treap is full.
func (u *Treap[T, S]) PushFront(v T) bool {
	return u.InsertAt(1, v)
}

// Reverse the elements at ranks i through j, 1<=i<=j<=Size(). Returns false and does
// nothing otherwise. Only the root of the extracted range is flagged; the swap is
// pushed down one level at a time by later descents.
// Time: O(D)
func (u *Treap[T, S]) Reverse(i, j S) bool {
	if i == 0 || i > j || j > u.Size() {
		return false
	}
	t12, t3 := u.splitAt(u.root, j+1)
	t1, t2 := u.splitAt(t12, i)
	u.ifs[t2].sw = !u.ifs[t2].sw
	u.root = u.join(u.join(t1, t2), t3)
	u.fixRoot()
	return true
}

// EraseRange removes the elements at ranks i through j, 1<=i<=j<=Size(), and returns
// how many were removed: j-i+1, or 0 if the range is invalid.
// Time: O(D+j-i)
func (u *Treap[T, S]) EraseRange(i, j S) S {
	if i == 0 || i > j || j > u.Size() {
		return 0
	}
	t12, t3 := u.splitAt(u.root, j+1)
	t1, t2 := u.splitAt(t12, i)
	u.releaseAll(t2)
	u.root = u.join(t1, t3)
	u.fixRoot()
	return j - i + 1
}
