package Trees

import (
	"cmp"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
)

// Sorted is a treap kept in non-decreasing order by a comparison function, so it
// acts as a multiset that also answers rank queries. It shares the node arena and
// the rank addressed reads (Find, EraseAt, iteration) with Treap but has no
// positional insert nor reversal, since those would break the ordering.
// Equal elements are allowed; an element equal to some existing ones is placed
// after them. At most ^S(0)-1 elements fit.
type Sorted[T any, S constraints.Unsigned] struct {
	base[T, S]
	cmp func(a, b T) int
}

// NewSorted creates an empty Sorted using the natural ordering of T.
func NewSorted[T cmp.Ordered, S constraints.Unsigned](hint S, src rand.Source) *Sorted[T, S] {
	return NewSortedFunc[T](hint, cmp.Compare[T], src)
}

// NewSortedFunc creates an empty Sorted ordered by compare, which returns a negative
// number, zero or a positive number when a<b, a==b or a>b.
func NewSortedFunc[T any, S constraints.Unsigned](hint S, compare func(a, b T) int, src rand.Source) *Sorted[T, S] {
	return &Sorted[T, S]{makeBase[T](hint, src), compare}
}

// SortedFrom builds a Sorted from vs, which must already be sorted by compare. The
// array is handed to the tree and it mustn't be modified by the caller later.
// If safe==true, the order is checked first and UnsortedSliceError is panicked when
// it's broken. Otherwise it's up to the caller; an unsorted vs corrupts the tree.
// OversizedSliceError is panicked if len(vs) exceeds ^S(0)-1.
// Time: O(n).
func SortedFrom[T any, S constraints.Unsigned](vs []T, compare func(a, b T) int, safe bool, src rand.Source) *Sorted[T, S] {
	checkLen[S](len(vs))
	if safe {
		for i := 1; i < len(vs); i++ {
			if compare(vs[i-1], vs[i]) > 0 {
				panic(UnsortedSliceError[T]{i - 1, vs[i-1], vs[i]})
			}
		}
	}
	t := NewSortedFunc[T, S](0, compare, src)
	t.build(vs)
	return t
}

// splitBy puts the nodes <=v of the subtree c in l and the rest in r. Recursive.
func (u *Sorted[T, S]) splitBy(c S, v T) (l, r S) {
	if c == 0 {
		return 0, 0
	}
	u.lazy(c)
	n := &u.ifs[c]
	if u.cmp(u.vs[c-1], v) <= 0 {
		l = c
		n.r, r = u.splitBy(n.r, v)
	} else {
		r = c
		l, n.l = u.splitBy(n.l, v)
	}
	u.update(c)
	return
}

// insertBy places the detached node ni in the subtree *curI. Recursive.
func (u *Sorted[T, S]) insertBy(curI *S, ni S) {
	cur := *curI
	if cur == 0 {
		*curI = ni
		return
	}
	u.lazy(cur)
	if n := &u.ifs[cur]; u.ifs[ni].prio < n.prio {
		u.ifs[ni].l, u.ifs[ni].r = u.splitBy(cur, u.vs[ni-1])
		*curI = ni
	} else if u.cmp(u.vs[ni-1], u.vs[cur-1]) < 0 {
		u.insertBy(&n.l, ni)
	} else {
		u.insertBy(&n.r, ni)
	}
	u.update(*curI)
}

// eraseBy removes one node equal to v from the subtree *curI. Recursive.
func (u *Sorted[T, S]) eraseBy(curI *S, v T) bool {
	cur := *curI
	if cur == 0 {
		return false
	}
	u.lazy(cur)
	n := &u.ifs[cur]
	erased := true
	if c := u.cmp(v, u.vs[cur-1]); c == 0 {
		*curI = u.join(n.l, n.r)
		u.release(cur)
	} else if c < 0 {
		erased = u.eraseBy(&n.l, v)
	} else {
		erased = u.eraseBy(&n.r, v)
	}
	if *curI != 0 {
		u.update(*curI)
	}
	return erased
}

// Insert v. Returns false and does nothing if the tree is full. Recursive.
// Time: O(D)
func (u *Sorted[T, S]) Insert(v T) bool {
	if u.full() {
		return false
	}
	ni := u.alloc(v)
	u.insertBy(&u.root, ni)
	u.fixRoot()
	return true
}

// Remove one element equal to v. Which one is unspecified when there are several.
// Returns false if there's none. Recursive.
// Time: O(D)
func (u *Sorted[T, S]) Remove(v T) bool {
	erased := u.eraseBy(&u.root, v)
	u.fixRoot()
	return erased
}

// Has an element equal to v.
// Time: O(D); Space: O(1)
func (u *Sorted[T, S]) Has(v T) bool {
	for curI := u.root; curI != 0; {
		if c := u.cmp(v, u.vs[curI-1]); c < 0 {
			curI = u.ifs[curI].l
		} else if c > 0 {
			curI = u.ifs[curI].r
		} else {
			return true
		}
	}
	return false
}

// LowerBound returns the first element >=v. If there's none the iterator is invalid
// and its rank is Size()+1.
// Time: O(D); Space: O(1)
func (u *Sorted[T, S]) LowerBound(v T) Iter[T, S] {
	return u.firstSatisfying(func(x *T) bool {
		return u.cmp(v, *x) <= 0
	})
}

// UpperBound returns the first element >v. If there's none the iterator is invalid
// and its rank is Size()+1.
// Time: O(D); Space: O(1)
func (u *Sorted[T, S]) UpperBound(v T) Iter[T, S] {
	return u.firstSatisfying(func(x *T) bool {
		return u.cmp(v, *x) < 0
	})
}

// RankOf v, the number of elements less than v plus one. This is the rank v would
// get if it were inserted before its equals.
// Time: O(D)
func (u *Sorted[T, S]) RankOf(v T) S {
	return u.LowerBound(v).Rank()
}

// Count the elements equal to v.
// Time: O(D)
func (u *Sorted[T, S]) Count(v T) S {
	return u.UpperBound(v).Rank() - u.LowerBound(v).Rank()
}

// Corrupt reports the same breakages as for Treap, and also whether the elements are
// out of order.
// Time: O(n)
func (u *Sorted[T, S]) Corrupt() bool {
	if u.base.Corrupt() {
		return true
	}
	ordered, first := true, true
	var prev T
	u.InOrder(func(v *T) bool {
		if !first && u.cmp(prev, *v) > 0 {
			ordered = false
		}
		prev, first = *v, false
		return ordered
	}, nil)
	return !ordered
}
