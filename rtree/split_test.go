package rtree

import (
	"testing"

	"github.com/tormol/rstartree/geo"
)

func TestPickSeedsPicksMostSeparatedPair(t *testing.T) {
	pool := &splitPool{
		minX: []float32{0, 0, 100, 101},
		minY: []float32{0, 0, 100, 101},
		maxX: []float32{1, 1, 101, 102},
		maxY: []float32{1, 1, 101, 102},
		ids:  []int32{1, 2, 3, 4},
	}
	i, j := pickSeeds(pool)
	if (i != 0 && i != 1) && (j != 0 && j != 1) {
		// one seed should come from the {0,1} cluster...
		t.Fatalf("pickSeeds = (%d,%d), expected one index from each cluster", i, j)
	}
	low, high := i, j
	if low > high {
		low, high = high, low
	}
	if !(low <= 1 && high >= 2) {
		t.Fatalf("pickSeeds = (%d,%d), expected one far-apart pair across the two clusters", i, j)
	}
}

func TestPickSeedsDegeneratePool(t *testing.T) {
	// Every candidate at the exact same point: pickSeeds must still return
	// two distinct indices rather than looping forever or picking i==j.
	pool := &splitPool{
		minX: []float32{5, 5, 5},
		minY: []float32{5, 5, 5},
		maxX: []float32{5, 5, 5},
		maxY: []float32{5, 5, 5},
		ids:  []int32{1, 2, 3},
	}
	i, j := pickSeeds(pool)
	if i == j {
		t.Fatalf("pickSeeds returned the same index twice: %d", i)
	}
}

func TestSplitNodeRedistributesAllEntries(t *testing.T) {
	tr := mustNew(t, 4, 2)
	n := tr.store.Get(tr.rootID)
	n.addEntry(geo.New(0, 0, 1, 1, 1), 1)
	n.addEntry(geo.New(1, 1, 2, 2, 2), 2)
	n.addEntry(geo.New(2, 2, 3, 3, 3), 3)
	n.addEntry(geo.New(3, 3, 4, 4, 4), 4)

	m := tr.splitNode(n, geo.New(100, 100, 101, 101, 5), 5)

	total := n.entryCount() + m.entryCount()
	if total != 5 {
		t.Fatalf("total entries after split = %d, want 5", total)
	}
	if n.entryCount() < tr.minFill || m.entryCount() < tr.minFill {
		t.Fatalf("split violated minFill: n=%d m=%d minFill=%d", n.entryCount(), m.entryCount(), tr.minFill)
	}

	seen := make(map[int32]bool)
	for _, id := range n.entryID {
		seen[id] = true
	}
	for _, id := range m.entryID {
		seen[id] = true
	}
	for _, id := range []int32{1, 2, 3, 4, 5} {
		if !seen[id] {
			t.Fatalf("entry id %d missing after split", id)
		}
	}
}
