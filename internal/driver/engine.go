package driver

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"golang.org/x/exp/rand"

	"github.com/g-m-twostay/cp-utils/Trees"
)

// Engine holds the sequence the commands operate on. Ranks start from 1; methods
// return false, leaving the sequence unchanged, when a rank is out of range.
type Engine interface {
	Insert(k, e int) bool
	Ask(k int) (int, bool)
	Reverse(l, r int) bool
	Erase(l, r int) bool
	Size() int
	Values() []int
}

// TreapEngine runs every command in O(log n) expected time.
type TreapEngine struct {
	t *Trees.Treap[int, uint32]
}

// NewTreapEngine with treap priorities drawn from src.
func NewTreapEngine(hint int, src rand.Source) *TreapEngine {
	return &TreapEngine{Trees.New[int, uint32](uint32(hint), src)}
}

// rank converts k, failing when it doesn't fit the treap's rank type.
func rank(k int) (uint32, bool) {
	if k < 1 || uint64(k) > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(k), true
}

func (u *TreapEngine) Insert(k, e int) bool {
	rk, ok := rank(k)
	return ok && u.t.InsertAt(rk, e)
}

func (u *TreapEngine) Ask(k int) (int, bool) {
	rk, ok := rank(k)
	if !ok {
		return 0, false
	}
	it := u.t.Find(rk)
	return it.Value(), it.Valid()
}

func (u *TreapEngine) Reverse(l, r int) bool {
	rl, ok1 := rank(l)
	rr, ok2 := rank(r)
	return ok1 && ok2 && u.t.Reverse(rl, rr)
}

func (u *TreapEngine) Erase(l, r int) bool {
	rl, ok1 := rank(l)
	rr, ok2 := rank(r)
	return ok1 && ok2 && u.t.EraseRange(rl, rr) > 0
}

func (u *TreapEngine) Size() int {
	return int(u.t.Size())
}

func (u *TreapEngine) Values() []int {
	return u.t.Values()
}

// ListEngine keeps the sequence in an array list, paying O(n) per insert, erase
// and reverse. It serves as the reference the treap is verified against.
type ListEngine struct {
	l *arraylist.List
}

func NewListEngine() *ListEngine {
	return &ListEngine{arraylist.New()}
}

func (u *ListEngine) Insert(k, e int) bool {
	if k < 1 || k > u.l.Size()+1 {
		return false
	}
	u.l.Insert(k-1, e)
	return true
}

func (u *ListEngine) Ask(k int) (int, bool) {
	v, ok := u.l.Get(k - 1)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

func (u *ListEngine) inRange(l, r int) bool {
	return 1 <= l && l <= r && r <= u.l.Size()
}

func (u *ListEngine) Reverse(l, r int) bool {
	if !u.inRange(l, r) {
		return false
	}
	for i, j := l-1, r-1; i < j; i, j = i+1, j-1 {
		u.l.Swap(i, j)
	}
	return true
}

func (u *ListEngine) Erase(l, r int) bool {
	if !u.inRange(l, r) {
		return false
	}
	for range r - l + 1 {
		u.l.Remove(l - 1)
	}
	return true
}

func (u *ListEngine) Size() int {
	return u.l.Size()
}

func (u *ListEngine) Values() []int {
	vs := make([]int, 0, u.l.Size())
	u.l.Each(func(_ int, v interface{}) {
		vs = append(vs, v.(int))
	})
	return vs
}
