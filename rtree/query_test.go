package rtree

import (
	"testing"

	"github.com/tormol/rstartree/geo"
)

func TestJoinFindsIntersectingPairsOnly(t *testing.T) {
	a := mustNew(t, 4, 2)
	b := mustNew(t, 4, 2)

	a.Insert(geo.New(0, 0, 10, 10, 1), 1)
	a.Insert(geo.New(100, 100, 110, 110, 2), 2)

	b.Insert(geo.New(5, 5, 15, 15, 10), 10)
	b.Insert(geo.New(200, 200, 210, 210, 20), 20)

	got := a.Join(b)
	want := map[int32][]int32{1: {10}}
	if len(got) != len(want) {
		t.Fatalf("Join() = %v, want %v", got, want)
	}
	if ys, ok := got[1]; !ok || len(ys) != 1 || ys[0] != 10 {
		t.Fatalf("Join()[1] = %v, want [10]", ys)
	}
}

func TestJoinEmptyTrees(t *testing.T) {
	a := mustNew(t, 4, 2)
	b := mustNew(t, 4, 2)
	got := a.Join(b)
	if len(got) != 0 {
		t.Fatalf("Join() of two empty trees = %v, want empty", got)
	}
}

func TestJoinAcrossMultipleLevels(t *testing.T) {
	a := mustNew(t, 4, 2)
	b := mustNew(t, 4, 2)
	for i := int32(0); i < 20; i++ {
		x := float32(i) * 10
		a.Insert(geo.New(x, x, x+5, x+5, i), i)
		b.Insert(geo.New(x+2, x+2, x+7, x+7, i+100), i+100)
	}
	got := a.Join(b)
	for i := int32(0); i < 20; i++ {
		ys, ok := got[i]
		if !ok {
			t.Fatalf("expected entry %d to intersect its offset counterpart in b", i)
		}
		found := false
		for _, y := range ys {
			if y == i+100 {
				found = true
			}
		}
		if !found {
			t.Fatalf("entry %d: expected %d among matches, got %v", i, i+100, ys)
		}
	}
}

func TestRangeFullyContainedSubtreeFastPath(t *testing.T) {
	tr := mustNew(t, 4, 2)
	for i := int32(0); i < 20; i++ {
		x := float32(i)
		tr.Insert(geo.New(x, x, x+1, x+1, i), i)
	}
	got := tr.Range(geo.Rectangle{MinX: -1000, MinY: -1000, MaxX: 1000, MaxY: 1000})
	if len(got) != 20 {
		t.Fatalf("Range covering everything returned %d entries, want 20", len(got))
	}
}

func TestRangeDisjointQuery(t *testing.T) {
	tr := mustNew(t, 4, 2)
	tr.Insert(geo.New(0, 0, 1, 1, 1), 1)
	got := tr.Range(geo.Rectangle{MinX: 50, MinY: 50, MaxX: 51, MaxY: 51})
	if len(got) != 0 {
		t.Fatalf("Range() = %v, want empty", got)
	}
}
