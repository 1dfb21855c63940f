package Trees

import "golang.org/x/exp/constraints"

// Iter is a position in a Treap or Sorted. An iterator stays usable only until the
// next structural change (insert, erase, reverse, clear) of its tree; using it after
// that is a caller error and isn't detected.
//
//	for it := t.First(); it.Valid(); it.Next() {
//		fmt.Println(it.Rank(), it.Value())
//	}
type Iter[T any, S constraints.Unsigned] struct {
	u   *base[T, S]
	cur S
	rnk S
}

// Valid is false once the iterator moved past either end, or when it was created
// for a rank that doesn't exist.
func (it Iter[T, S]) Valid() bool {
	return it.cur != 0
}

// Rank of the position, starting from 1. An invalid iterator past the end reports
// Size()+1, one before the beginning reports 0.
func (it Iter[T, S]) Rank() S {
	return it.rnk
}

// Value at the position, the zero value if invalid.
func (it Iter[T, S]) Value() T {
	if it.cur == 0 {
		return *new(T)
	}
	return it.u.vs[it.cur-1]
}

// Ptr to the value at the position, nil if invalid. The pointer must not be used to
// change the ordering of a Sorted.
func (it Iter[T, S]) Ptr() *T {
	if it.cur == 0 {
		return nil
	}
	return &it.u.vs[it.cur-1]
}

// Next moves to the following rank. Every node on the path from the root to the
// current one has already been discharged, so only newly entered nodes need it.
// Time: amortized O(1).
func (it *Iter[T, S]) Next() {
	if it.cur == 0 {
		return
	}
	u := it.u
	if c := u.ifs[it.cur].r; c != 0 {
		for u.lazy(c); u.ifs[c].l != 0; u.lazy(c) {
			c = u.ifs[c].l
		}
		it.cur = c
	} else {
		last, c := it.cur, u.ifs[it.cur].p
		for c != 0 && u.ifs[c].l != last {
			last, c = c, u.ifs[c].p
		}
		it.cur = c
	}
	it.rnk++
}

// Prev moves to the preceding rank.
// Time: amortized O(1).
func (it *Iter[T, S]) Prev() {
	if it.cur == 0 {
		return
	}
	u := it.u
	if c := u.ifs[it.cur].l; c != 0 {
		for u.lazy(c); u.ifs[c].r != 0; u.lazy(c) {
			c = u.ifs[c].r
		}
		it.cur = c
	} else {
		last, c := it.cur, u.ifs[it.cur].p
		for c != 0 && u.ifs[c].r != last {
			last, c = c, u.ifs[c].p
		}
		it.cur = c
	}
	it.rnk--
}
