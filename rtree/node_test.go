package rtree

import (
	"testing"

	"github.com/tormol/rstartree/geo"
)

func TestNodeAddEntryGrowsMBR(t *testing.T) {
	n := newNode(0, 1, 4)
	n.addEntry(geo.New(0, 0, 1, 1, 1), 1)
	n.addEntry(geo.New(5, 5, 6, 6, 2), 2)

	want := geo.Rectangle{MinX: 0, MinY: 0, MaxX: 6, MaxY: 6}
	if n.mbr != want {
		t.Fatalf("mbr = %+v, want %+v", n.mbr, want)
	}
	if n.entryCount() != 2 {
		t.Fatalf("entryCount = %d, want 2", n.entryCount())
	}
}

func TestNodeFindEntry(t *testing.T) {
	n := newNode(0, 1, 4)
	n.addEntry(geo.New(0, 0, 1, 1, 1), 1)
	n.addEntry(geo.New(2, 2, 3, 3, 2), 2)

	o := n.findEntry(geo.New(2, 2, 3, 3, 2), 2)
	if o.IsNone() {
		t.Fatal("expected to find entry")
	}
	if o.Unwrap() != 1 {
		t.Fatalf("found index %d, want 1", o.Unwrap())
	}

	if n.findEntry(geo.New(9, 9, 10, 10, 2), 2).IsSome() {
		t.Fatal("expected no match for a different rectangle")
	}
	if n.findEntry(geo.New(2, 2, 3, 3, 99), 99).IsSome() {
		t.Fatal("expected no match for a different id")
	}
}

func TestNodeDeleteEntrySwapRemove(t *testing.T) {
	n := newNode(0, 1, 4)
	n.addEntry(geo.New(0, 0, 1, 1, 1), 1)
	n.addEntry(geo.New(2, 2, 3, 3, 2), 2)
	n.addEntry(geo.New(4, 4, 5, 5, 3), 3)

	n.deleteEntry(0) // swapped with the last entry (id 3)

	if n.entryCount() != 2 {
		t.Fatalf("entryCount = %d, want 2", n.entryCount())
	}
	if n.entryID[0] != 3 {
		t.Fatalf("entryID[0] = %d, want 3 (swap-remove should move the last entry into the hole)", n.entryID[0])
	}
}

func TestNodeDeleteEntryRecalculatesTouchedMBR(t *testing.T) {
	n := newNode(0, 1, 4)
	n.addEntry(geo.New(0, 0, 1, 1, 1), 1)
	n.addEntry(geo.New(5, 5, 6, 6, 2), 2)

	n.deleteEntry(1) // removes the entry defining MaxX/MaxY

	want := geo.Rectangle{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	if n.mbr != want {
		t.Fatalf("mbr after delete = %+v, want %+v", n.mbr, want)
	}
}

func TestNodeDeleteLastEntryResetsMBRToEmpty(t *testing.T) {
	n := newNode(0, 1, 4)
	n.addEntry(geo.New(0, 0, 1, 1, 1), 1)
	n.deleteEntry(0)

	if n.mbr != geo.Empty {
		t.Fatalf("mbr = %+v, want geo.Empty", n.mbr)
	}
	if !n.isEmpty() {
		t.Fatal("expected isEmpty() after removing the only entry")
	}
}

func TestNodeUpdateEntryRectOnlyRecalculatesWhenNeeded(t *testing.T) {
	n := newNode(0, 1, 4)
	n.addEntry(geo.New(0, 0, 1, 1, 1), 1)
	n.addEntry(geo.New(5, 5, 6, 6, 2), 2)
	n.addEntry(geo.New(2, 2, 3, 3, 3), 3)
	originalMBR := n.mbr

	// Shrinking an entry that doesn't touch any edge of the MBR: no-op on mbr.
	n.updateEntryRect(2, geo.New(2.2, 2.2, 2.8, 2.8, 3))
	if n.mbr != originalMBR {
		t.Fatalf("mbr changed to %+v for an update that shouldn't affect it", n.mbr)
	}

	// Growing an entry beyond the current MBR must widen it.
	n.updateEntryRect(0, geo.New(-10, 0.2, 0.8, 0.8, 1))
	if n.mbr.MinX != -10 {
		t.Fatalf("mbr.MinX = %v, want -10 after growing entry 0", n.mbr.MinX)
	}
}

func TestNodeIsLeaf(t *testing.T) {
	leaf := newNode(0, 1, 4)
	internal := newNode(1, 2, 4)
	if !leaf.isLeaf() {
		t.Fatal("level 1 node should be a leaf")
	}
	if internal.isLeaf() {
		t.Fatal("level 2 node should not be a leaf")
	}
}
