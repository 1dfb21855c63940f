package Trees

import "golang.org/x/exp/constraints"

// A node slot in the treap arena. Index 0 of the arena is the nil sentinel: all of
// its fields stay zero, so reading the size of a missing child gives 0.
// For a free slot, l is the next free index.
type info[S constraints.Unsigned] struct {
	l, r, p S      // children and parent. p is never followed to release anything.
	sz      S      // size of the subtree rooted here.
	prio    uint32 // 30 bit heap key, smaller is closer to the root.
	sw      bool   // children of this subtree must be swapped before use.
}

// lazy discharges the pending swap at i. Only the immediate children get their flag
// flipped; they are discharged in turn when something descends into them.
func (u *base[T, S]) lazy(i S) {
	if n := &u.ifs[i]; n.sw {
		n.l, n.r = n.r, n.l
		if n.l != 0 {
			u.ifs[n.l].sw = !u.ifs[n.l].sw
		}
		if n.r != 0 {
			u.ifs[n.r].sw = !u.ifs[n.r].sw
		}
		n.sw = false
	}
}

// update recomputes the size of i and points the children back at it.
func (u *base[T, S]) update(i S) {
	n := &u.ifs[i]
	n.sz = u.ifs[n.l].sz + u.ifs[n.r].sz + 1
	if n.l != 0 {
		u.ifs[n.l].p = i
	}
	if n.r != 0 {
		u.ifs[n.r].p = i
	}
}

// leftSize of the node at i. i must have been discharged.
func (u *base[T, S]) leftSize(i S) S {
	return u.ifs[u.ifs[i].l].sz
}
