package Trees

import (
	"iter"
	"math/bits"
	"time"

	"github.com/g-m-twostay/cp-utils/Queues"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
)

// base is the node arena shared by Treap and Sorted. Nodes are addressed by index
// into ifs; index 0 is the nil sentinel. Freed indexes are kept in a linked list
// starting at free and threaded through info.l.
type base[T any, S constraints.Unsigned] struct {
	root, free S
	ifs        []info[S] // len(ifs)=len(vs)+1
	vs         []T       // vs[i] belongs to ifs[i+1]
	rg         *rand.Rand
}

func makeBase[T any, S constraints.Unsigned](hint S, src rand.Source) base[T, S] {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return base[T, S]{ifs: make([]info[S], 1, uint(hint)+1), vs: make([]T, 0, hint), rg: rand.New(src)}
}

// maxSize is the most elements a tree with size type S holds. One value is kept
// free so that Size()+1, the rank past the end, doesn't wrap.
func maxSize[S constraints.Unsigned]() S {
	return ^S(0) - 1
}

// checkLen panics with OversizedSliceError when n elements don't fit.
func checkLen[S constraints.Unsigned](n int) {
	if m := maxSize[S](); uint64(n) > uint64(m) {
		panic(OversizedSliceError{n, uint64(m)})
	}
}

// full when one more element would exceed maxSize.
func (u *base[T, S]) full() bool {
	return u.Size() >= maxSize[S]()
}

func (u *base[T, S]) priority() uint32 {
	return u.rg.Uint32() >> 2
}

// addFree index once.
func (u *base[T, S]) addFree(a S) {
	u.ifs[a] = info[S]{l: u.free}
	u.free = a
}

// popFree index once. Returns 0 when there's no free index.
func (u *base[T, S]) popFree() S {
	b := u.free
	u.free = u.ifs[u.free].l
	return b
}

// alloc a detached node holding v. Holes are filled before the arena grows.
func (u *base[T, S]) alloc(v T) S {
	n := info[S]{sz: 1, prio: u.priority()}
	if i := u.popFree(); i != 0 {
		u.ifs[i], u.vs[i-1] = n, v
		return i
	}
	u.ifs = append(u.ifs, n)
	u.vs = append(u.vs, v)
	return S(len(u.vs))
}

// release a single detached node.
func (u *base[T, S]) release(i S) {
	u.vs[i-1] = *new(T)
	u.addFree(i)
}

// releaseAll nodes of the subtree rooted at c.
func (u *base[T, S]) releaseAll(c S) {
	if c == 0 {
		return
	}
	q := Queues.MakeArrayQueue[S](uint(bits.Len(uint(u.ifs[c].sz))) + 1)
	for q.Push(c); !q.Empty(); {
		i, _ := q.Pop()
		n := u.ifs[i]
		if n.l != 0 {
			q.Push(n.l)
		}
		if n.r != 0 {
			q.Push(n.r)
		}
		u.release(i)
	}
}

// fixRoot clears the parent link of the root. Splits leave it stale.
func (u *base[T, S]) fixRoot() {
	if u.root != 0 {
		u.ifs[u.root].p = 0
	}
}

// splitAt puts the first k-1 nodes of the subtree c in l and the rest in r. Recursive.
func (u *base[T, S]) splitAt(c, k S) (l, r S) {
	if c == 0 {
		return 0, 0
	}
	u.lazy(c)
	n := &u.ifs[c]
	if ls := u.ifs[n.l].sz; ls+1 < k {
		l = c
		n.r, r = u.splitAt(n.r, k-ls-1)
	} else {
		r = c
		l, n.l = u.splitAt(n.l, k)
	}
	u.update(c)
	return
}

// join l and r, every node of l preceding every node of r. The root with the smaller
// priority stays on top. Recursive.
func (u *base[T, S]) join(l, r S) S {
	if l == 0 {
		return r
	} else if r == 0 {
		return l
	}
	u.lazy(l)
	u.lazy(r)
	if u.ifs[l].prio < u.ifs[r].prio {
		u.ifs[l].r = u.join(u.ifs[l].r, r)
		u.update(l)
		return l
	}
	u.ifs[r].l = u.join(l, u.ifs[r].l)
	u.update(r)
	return r
}

// eraseAt removes the kth node of the subtree *curI. Recursive.
func (u *base[T, S]) eraseAt(curI *S, k S) bool {
	cur := *curI
	if cur == 0 {
		return false
	}
	u.lazy(cur)
	n := &u.ifs[cur]
	erased := true
	if ls := u.ifs[n.l].sz; ls+1 == k {
		*curI = u.join(n.l, n.r)
		u.release(cur)
	} else if ls >= k {
		erased = u.eraseAt(&n.l, k)
	} else {
		erased = u.eraseAt(&n.r, k-ls-1)
	}
	if *curI != 0 {
		u.update(*curI)
	}
	return erased
}

// findAt returns the index of the kth node, or 0.
// Time: O(D); Space: O(1)
func (u *base[T, S]) findAt(k S) S {
	for curI := u.root; curI != 0; {
		u.lazy(curI)
		if ls := u.leftSize(curI); k <= ls {
			curI = u.ifs[curI].l
		} else if k == ls+1 {
			return curI
		} else {
			k -= ls + 1
			curI = u.ifs[curI].r
		}
	}
	return 0
}

// firstSatisfying returns the first node in order for which pred holds. pred must be
// monotone over the current order: false for a prefix, true for the rest.
// Time: O(D); Space: O(1)
func (u *base[T, S]) firstSatisfying(pred func(*T) bool) Iter[T, S] {
	it := Iter[T, S]{u: u, rnk: u.Size() + 1}
	var aux S
	for curI := u.root; curI != 0; {
		u.lazy(curI)
		if pred(&u.vs[curI-1]) {
			it.cur, it.rnk = curI, aux+u.leftSize(curI)+1
			curI = u.ifs[curI].l
		} else {
			aux += u.leftSize(curI) + 1
			curI = u.ifs[curI].r
		}
	}
	return it
}

// Size returns the number of elements.
// Time: O(1); Space: O(1)
func (u *base[T, S]) Size() S {
	return u.ifs[u.root].sz
}

// EraseAt removes the kth element, 1<=k<=Size(). Returns false and does nothing
// otherwise. Recursive.
// Time: O(D)
func (u *base[T, S]) EraseAt(k S) bool {
	if k == 0 || k > u.Size() {
		return false
	}
	erased := u.eraseAt(&u.root, k)
	u.fixRoot()
	return erased
}

// Find returns an iterator at rank k. If k is out of range the iterator is invalid,
// with rank 0 when k==0 and Size()+1 otherwise.
// Time: O(D); Space: O(1)
func (u *base[T, S]) Find(k S) Iter[T, S] {
	if k == 0 {
		return Iter[T, S]{u: u}
	} else if k > u.Size() {
		return Iter[T, S]{u: u, rnk: u.Size() + 1}
	}
	return Iter[T, S]{u, u.findAt(k), k}
}

// First element. Invalid if the tree is empty.
func (u *base[T, S]) First() Iter[T, S] {
	return u.Find(1)
}

// Last element. Invalid if the tree is empty.
func (u *base[T, S]) Last() Iter[T, S] {
	return u.Find(u.Size())
}

// Clear the tree, also zeroes the stored values if reset is true. O(1) if reset==false.
// O(size) if reset==true. Doesn't allocate new arrays.
func (u *base[T, S]) Clear(reset bool) {
	if reset {
		clear(u.vs)
		clear(u.ifs)
	}
	u.ifs, u.vs = u.ifs[:1], u.vs[:0]
	u.root, u.free = 0, 0
}

// InOrder traversal of the tree in the current order, stopping when f returns false.
// st is an optional stack buffer, returned for reuse. f may modify the value but not
// its position. Pending swaps on the visited nodes are discharged.
// Time: O(n); Space: O(D)
func (u *base[T, S]) InOrder(f func(*T) bool, st []S) []S {
	st = st[:0]
	for curI := u.root; curI != 0; curI = u.ifs[curI].l {
		u.lazy(curI)
		st = append(st, curI)
	}
	for len(st) > 0 {
		curI := st[len(st)-1]
		st = st[:len(st)-1]
		if !f(&u.vs[curI-1]) {
			break
		}
		for curI = u.ifs[curI].r; curI != 0; curI = u.ifs[curI].l {
			u.lazy(curI)
			st = append(st, curI)
		}
	}
	return st
}

// All yields (rank, value) pairs in the current order. The tree must not be modified
// while ranging.
func (u *base[T, S]) All() iter.Seq2[S, T] {
	return func(yield func(S, T) bool) {
		var r S
		u.InOrder(func(v *T) bool {
			r++
			return yield(r, *v)
		}, nil)
	}
}

// Values in the current order.
func (u *base[T, S]) Values() []T {
	vs := make([]T, 0, u.Size())
	u.InOrder(func(v *T) bool {
		vs = append(vs, *v)
		return true
	}, nil)
	return vs
}

// Corrupt reports whether the heap order, the subtree sizes or the parent links are
// broken anywhere in the tree. Pending swaps don't affect the result.
// Time: O(n); Space: O(n)
func (u *base[T, S]) Corrupt() bool {
	if u.root == 0 {
		return false
	} else if u.ifs[u.root].p != 0 {
		return true
	}
	var seen S
	q := Queues.MakeArrayQueue[S](uint(u.Size()/2) + 1)
	for q.Push(u.root); !q.Empty(); {
		curI, _ := q.Pop()
		if seen++; seen > u.Size() {
			return true
		}
		n := u.ifs[curI]
		if n.sz != u.ifs[n.l].sz+u.ifs[n.r].sz+1 {
			return true
		}
		for _, c := range [2]S{n.l, n.r} {
			if c == 0 {
				continue
			} else if u.ifs[c].p != curI || u.ifs[c].prio < n.prio {
				return true
			}
			q.Push(c)
		}
	}
	return seen != u.Size()
}

func (u *base[T, S]) maxDepth(c S) uint {
	if c == 0 {
		return 0
	}
	return max(u.maxDepth(u.ifs[c].l), u.maxDepth(u.ifs[c].r)) + 1
}

// MaxDepth is the number of nodes on the longest root to leaf path. Recursive.
func (u *base[T, S]) MaxDepth() uint {
	return u.maxDepth(u.root)
}

// build a treap over vs in their given order, taking ownership of vs. Priorities are
// drawn in order and the nodes are linked as a Cartesian tree using a stack holding
// the right spine.
// Time: O(n)
func (u *base[T, S]) build(vs []T) {
	u.vs = vs
	u.ifs = make([]info[S], len(vs)+1, cap(vs)+1)
	st := make([]S, 0, bits.Len(uint(len(vs)))<<1)
	for j := range len(vs) {
		i := S(j + 1)
		u.ifs[i].prio = u.priority()
		var last S
		for len(st) > 0 && u.ifs[st[len(st)-1]].prio > u.ifs[i].prio {
			last, st = st[len(st)-1], st[:len(st)-1]
		}
		u.ifs[i].l = last
		if len(st) > 0 {
			u.ifs[st[len(st)-1]].r = i
		}
		st = append(st, i)
	}
	if len(st) > 0 {
		u.root = st[0]
		u.pull(u.root)
	}
}

// pull recomputes sizes and parent links bottom up. Recursive.
func (u *base[T, S]) pull(c S) {
	if c != 0 {
		u.pull(u.ifs[c].l)
		u.pull(u.ifs[c].r)
		u.update(c)
	}
}
