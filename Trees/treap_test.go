package Trees

import (
	"slices"
	"testing"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var rg = rand.New(rand.NewSource(0))
var cache [2]uint

func (u *base[T, S]) _depth(curI S, d uint) {
	cur := u.ifs[curI]
	if cur.l != 0 {
		u._depth(cur.l, d+1)
	}
	if cur.r != 0 {
		u._depth(cur.r, d+1)
	}
	if cur.l == 0 && cur.r == 0 {
		cache[0]++
		cache[1] += d
	}
}

// depth is the average depth of the leaves.
func (u *base[T, S]) depth() float32 {
	if u.root == 0 {
		return 0
	}
	cache[0], cache[1] = 0, 0
	u._depth(u.root, 1)
	return float32(cache[1]) / float32(cache[0])
}

const (
	tOpN      = 20000
	tValRange = 1 << 20
)

// listInts converts the contents of the reference list.
func listInts(l *arraylist.List) []int {
	vs := make([]int, 0, l.Size())
	for _, v := range l.Values() {
		vs = append(vs, v.(int))
	}
	return vs
}

// checkSeq compares a Sequence with want through every read path.
func checkSeq(t *testing.T, u Sequence[int, uint32], want []int) {
	t.Helper()
	require.Equal(t, uint32(len(want)), u.Size())
	require.False(t, u.Corrupt(), "corrupt tree")
	require.Equal(t, want, append([]int{}, u.Values()...))
	var fwd []int
	for it := u.First(); it.Valid(); it.Next() {
		require.Equal(t, uint32(len(fwd)+1), it.Rank())
		fwd = append(fwd, it.Value())
	}
	assert.Equal(t, want, append([]int{}, fwd...))
	var bwd []int
	for it := u.Last(); it.Valid(); it.Prev() {
		require.Equal(t, uint32(len(want)-len(bwd)), it.Rank())
		bwd = append(bwd, it.Value())
	}
	slices.Reverse(bwd)
	assert.Equal(t, want, append([]int{}, bwd...))
}

func TestTreap_Scenario(t *testing.T) {
	tree := New[int, uint32](0, rand.NewSource(1))
	require.True(t, tree.InsertAt(1, 10))
	require.True(t, tree.InsertAt(2, 20))
	require.True(t, tree.InsertAt(2, 15))
	checkSeq(t, tree, []int{10, 15, 20})

	it := tree.Find(2)
	require.True(t, it.Valid())
	assert.Equal(t, 15, it.Value())
	assert.Equal(t, uint32(2), it.Rank())

	require.True(t, tree.Reverse(1, 3))
	checkSeq(t, tree, []int{20, 15, 10})

	require.True(t, tree.EraseAt(1))
	checkSeq(t, tree, []int{15, 10})
	assert.Equal(t, uint32(2), tree.Size())
}

func TestTreap_Reference(t *testing.T) {
	tree := New[int, uint32](1, rand.NewSource(2))
	ref := arraylist.New()
	for i := range tOpN {
		sz := ref.Size()
		switch op := rg.Intn(10); {
		case op < 5 || sz == 0:
			k, v := rg.Intn(sz+1), rg.Intn(tValRange)
			if !tree.InsertAt(uint32(k+1), v) {
				t.Fatalf("failed to insert at %d of %d", k+1, sz)
			}
			ref.Insert(k, v)
		case op < 7:
			k := rg.Intn(sz)
			if !tree.EraseAt(uint32(k + 1)) {
				t.Fatalf("failed to erase at %d of %d", k+1, sz)
			}
			ref.Remove(k)
		case op < 9:
			a, b := rg.Intn(sz), rg.Intn(sz)
			a, b = min(a, b), max(a, b)
			if !tree.Reverse(uint32(a+1), uint32(b+1)) {
				t.Fatalf("failed to reverse [%d, %d] of %d", a+1, b+1, sz)
			}
			for ; a < b; a, b = a+1, b-1 {
				ref.Swap(a, b)
			}
		default:
			a := rg.Intn(sz)
			b := min(sz-1, a+rg.Intn(8))
			if n := tree.EraseRange(uint32(a+1), uint32(b+1)); n != uint32(b-a+1) {
				t.Fatalf("erased %d of [%d, %d]", n, a+1, b+1)
			}
			for range b - a + 1 {
				ref.Remove(a)
			}
		}
		if sz := ref.Size(); sz > 0 {
			k := rg.Intn(sz)
			want, _ := ref.Get(k)
			if it := tree.Find(uint32(k + 1)); !it.Valid() || it.Value() != want.(int) {
				t.Fatalf("op %d: rank %d is %v, want %v", i, k+1, it.Value(), want)
			}
		}
		if i%2000 == 0 {
			checkSeq(t, tree, listInts(ref))
		}
	}
	checkSeq(t, tree, listInts(ref))
	t.Logf("depth: %f, max depth: %d, size: %d.\n", tree.depth(), tree.MaxDepth(), tree.Size())
}

func TestTreap_DoubleReverse(t *testing.T) {
	vs := rg.Perm(500)
	tree := From[int, uint32](slices.Clone(vs), rand.NewSource(3))
	for range 200 {
		a, b := uint32(rg.Intn(len(vs))+1), uint32(rg.Intn(len(vs))+1)
		a, b = min(a, b), max(a, b)
		require.True(t, tree.Reverse(a, b))
		require.True(t, tree.Reverse(a, b))
	}
	checkSeq(t, tree, vs)
}

func TestTreap_Reverse(t *testing.T) {
	tree := New[int, uint32](0, rand.NewSource(4))
	want := make([]int, 0, 300)
	for i := range 300 {
		tree.Append(i)
		want = append(want, i)
	}
	for range 100 {
		a, b := rg.Intn(len(want)), rg.Intn(len(want))
		a, b = min(a, b), max(a, b)
		require.True(t, tree.Reverse(uint32(a+1), uint32(b+1)))
		slices.Reverse(want[a : b+1])
		// iterate a window of the reversed range from its middle in both directions.
		mid := (a + b) / 2
		it := tree.Find(uint32(mid + 1))
		for k := mid; k <= b; k++ {
			require.Equal(t, want[k], it.Value())
			it.Next()
		}
		it = tree.Find(uint32(mid + 1))
		for k := mid; k >= a; k-- {
			require.Equal(t, want[k], it.Value())
			it.Prev()
		}
	}
	checkSeq(t, tree, want)
}

func TestTreap_InsertEraseRoundTrip(t *testing.T) {
	vs := rg.Perm(1000)
	tree := From[int, uint32](slices.Clone(vs), rand.NewSource(5))
	tree.Reverse(100, 900)
	slices.Reverse(vs[99:900])
	for range 500 {
		k := uint32(rg.Intn(len(vs)+1) + 1)
		require.True(t, tree.InsertAt(k, -1))
		require.Equal(t, -1, tree.Find(k).Value())
		require.True(t, tree.EraseAt(k))
	}
	checkSeq(t, tree, vs)
}

func TestTreap_OutOfRange(t *testing.T) {
	tree := New[int, uint16](0, rand.NewSource(6))
	assert.False(t, tree.First().Valid())
	assert.False(t, tree.Last().Valid())
	assert.False(t, tree.EraseAt(1))
	assert.False(t, tree.InsertAt(0, 1))
	assert.False(t, tree.InsertAt(2, 1))
	assert.False(t, tree.Reverse(1, 1))
	assert.Zero(t, tree.EraseRange(1, 1))

	for i := range 5 {
		tree.PushFront(i)
	}
	assert.Equal(t, []int{4, 3, 2, 1, 0}, tree.Values())
	assert.False(t, tree.InsertAt(7, 1))
	assert.False(t, tree.EraseAt(0))
	assert.False(t, tree.EraseAt(6))
	assert.False(t, tree.Reverse(0, 2))
	assert.False(t, tree.Reverse(3, 2))
	assert.False(t, tree.Reverse(2, 6))
	assert.Zero(t, tree.EraseRange(4, 6))

	it := tree.Find(6)
	assert.False(t, it.Valid())
	assert.Equal(t, uint16(6), it.Rank())
	assert.Zero(t, it.Value())
	assert.Nil(t, it.Ptr())
	it = tree.Find(0)
	assert.False(t, it.Valid())
	assert.Equal(t, uint16(0), it.Rank())

	it = tree.Last()
	it.Next()
	assert.False(t, it.Valid())
	assert.Equal(t, uint16(6), it.Rank())
	it.Next()
	assert.Equal(t, uint16(6), it.Rank())
	it = tree.First()
	it.Prev()
	assert.False(t, it.Valid())
	assert.Equal(t, uint16(0), it.Rank())
}

func TestTreap_Full(t *testing.T) {
	tree := New[int, uint8](0, rand.NewSource(14))
	for i := range 254 {
		require.True(t, tree.Append(i))
	}
	assert.Equal(t, uint8(254), tree.Size())
	assert.False(t, tree.Append(254))
	assert.False(t, tree.PushFront(-1))
	assert.False(t, tree.InsertAt(100, -1))
	assert.Equal(t, uint8(254), tree.Size())
	assert.False(t, tree.Corrupt())
	assert.Equal(t, 0, tree.First().Value())
	assert.Equal(t, 253, tree.Last().Value())

	it := tree.Last()
	it.Next()
	assert.False(t, it.Valid())
	assert.Equal(t, uint8(255), it.Rank())
	assert.Equal(t, uint8(255), tree.Find(255).Rank())

	require.True(t, tree.EraseAt(1))
	require.True(t, tree.Append(254))
	assert.Equal(t, 254, tree.Last().Value())
	assert.False(t, tree.Append(255))
	assert.False(t, tree.Corrupt())
}

func TestFrom_Oversized(t *testing.T) {
	assert.PanicsWithError(t, "slice of 255 elements exceeds the capacity of 254", func() {
		From[int, uint8](make([]int, 255), nil)
	})
	tree := From[int, uint8](rg.Perm(254), rand.NewSource(15))
	assert.Equal(t, uint8(254), tree.Size())
	assert.False(t, tree.Corrupt())
	assert.False(t, tree.Append(0))
}

func TestTreap_EraseRange(t *testing.T) {
	tree := From[int, uint32](rg.Perm(100), rand.NewSource(7))
	want := tree.Values()
	assert.Equal(t, uint32(11), tree.EraseRange(40, 50))
	want = slices.Delete(want, 39, 50)
	checkSeq(t, tree, want)
	assert.Equal(t, uint32(len(want)), tree.EraseRange(1, uint32(len(want))))
	checkSeq(t, tree, []int{})
	// every slot went back to the free list.
	n := len(tree.ifs)
	for i := range 100 {
		tree.Append(i)
	}
	assert.Equal(t, n, len(tree.ifs))
	assert.False(t, tree.Corrupt())
}

func TestTreap_FreeSlots(t *testing.T) {
	tree := New[*int, uint32](0, rand.NewSource(8))
	for i := range 64 {
		tree.Append(&i)
	}
	n := len(tree.ifs)
	for range 32 {
		require.True(t, tree.EraseAt(uint32(rg.Intn(int(tree.Size()))+1)))
	}
	freed := 0
	for i, v := range tree.vs {
		if v == nil {
			freed++
			assert.Zero(t, tree.ifs[i+1].sz)
		}
	}
	assert.Equal(t, 32, freed)
	for i := range 32 {
		tree.PushFront(&i)
	}
	assert.Equal(t, n, len(tree.ifs))
	assert.False(t, tree.Corrupt())
}

func TestTreap_Clear(t *testing.T) {
	tree := From[string, uint8]([]string{"a", "b", "c"}, nil)
	tree.Clear(true)
	assert.Zero(t, tree.Size())
	assert.Empty(t, tree.Values())
	assert.Equal(t, 1, len(tree.ifs))
	tree.Append("d")
	tree.Append("e")
	assert.Equal(t, []string{"d", "e"}, tree.Values())
	assert.False(t, tree.Corrupt())
}

func TestTreap_All(t *testing.T) {
	tree := From[int, uint32]([]int{5, 6, 7, 8}, rand.NewSource(9))
	tree.Reverse(2, 4)
	var ranks []uint32
	var vs []int
	for r, v := range tree.All() {
		ranks = append(ranks, r)
		vs = append(vs, v)
		if r == 3 {
			break
		}
	}
	assert.Equal(t, []uint32{1, 2, 3}, ranks)
	assert.Equal(t, []int{5, 8, 7}, vs)
}

func TestTreap_InOrderStop(t *testing.T) {
	tree := From[int, uint32](rg.Perm(1000), rand.NewSource(10))
	want := tree.Values()
	var buf []uint32
	for range 10 {
		var s []int
		stop := rg.Intn(len(want)) + 1
		buf = tree.InOrder(func(v *int) bool {
			s = append(s, *v)
			return len(s) < stop
		}, buf)
		assert.Equal(t, want[:stop], s)
	}
}

func TestTreap_Ptr(t *testing.T) {
	tree := From[int, uint32]([]int{1, 2, 3}, rand.NewSource(11))
	tree.Reverse(1, 3)
	*tree.Find(1).Ptr() = 30
	assert.Equal(t, []int{30, 2, 1}, tree.Values())
}

func TestTreap_Corrupt(t *testing.T) {
	tree := From[int, uint32](rg.Perm(50), rand.NewSource(12))
	require.False(t, tree.Corrupt())
	c := tree.ifs[tree.root].l
	if c == 0 {
		c = tree.ifs[tree.root].r
	}
	tree.ifs[c].sz++
	assert.True(t, tree.Corrupt())
	tree.ifs[c].sz--
	tree.ifs[c].prio = 0
	tree.ifs[tree.root].prio = 1
	assert.True(t, tree.Corrupt())
}

func TestTreap_Depth(t *testing.T) {
	tree := New[int, uint32](1<<16, rand.NewSource(13))
	for i := range 1 << 16 {
		tree.InsertAt(uint32(rg.Intn(i+1)+1), i)
	}
	// the expected depth of a treap is about 2ln(n), 22 for this size.
	assert.Less(t, tree.depth(), float32(40))
	t.Logf("depth: %f, max depth: %d, size: %d.\n", tree.depth(), tree.MaxDepth(), tree.Size())
}
