package rtree

import (
	"math"
	"sort"

	"github.com/tormol/rstartree/geo"
)

// BulkLoad discards any existing contents and builds a packed tree from
// rects via Sort-Tile-Recursive: the leaf level is sliced and packed
// from the raw rectangles, then each higher level is built the same way
// over the previous level's node MBRs, until one node remains as root.
func (t *Tree) BulkLoad(rects []geo.Rectangle) {
	t.store = newNodeStore()
	t.size = uint64(len(rects))

	if len(rects) == 0 {
		root := t.store.New(1, t.capacity)
		t.rootID = root.id
		t.height = 1
		return
	}

	ids := t.strLeafLevel(rects)
	level := uint16(1)
	for len(ids) > 1 {
		level++
		ids = t.strNextLevel(ids, level)
	}
	t.rootID = ids[0]
	t.height = level
	t.runConsistencyCheck("BulkLoad")
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func ceilSqrt(n int) int {
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// strLeafLevel packs rects into level-1 nodes: S vertical slices sorted
// by minX, each slice internally sorted by minY and cut into runs of C.
func (t *Tree) strLeafLevel(rects []geo.Rectangle) []uint32 {
	c := int(t.capacity)
	numLeaves := ceilDiv(len(rects), c)
	s := maxInt(1, ceilSqrt(numLeaves))
	w := s * c

	sorted := append([]geo.Rectangle(nil), rects...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinX < sorted[j].MinX })

	var leafIDs []uint32
	for start := 0; start < len(sorted); start += w {
		end := minInt(start+w, len(sorted))
		slice := sorted[start:end]
		sort.Slice(slice, func(i, j int) bool { return slice[i].MinY < slice[j].MinY })

		for s2 := 0; s2 < len(slice); s2 += c {
			e2 := minInt(s2+c, len(slice))
			leaf := t.store.New(1, t.capacity)
			for _, r := range slice[s2:e2] {
				leaf.addEntry(r, r.ID)
			}
			sortNodeEntriesByMinX(leaf)
			leafIDs = append(leafIDs, leaf.id)
		}
	}
	return leafIDs
}

// strNextLevel repeats the same slice-and-pack tiling one level up,
// using each child's MBR in place of a raw rectangle.
func (t *Tree) strNextLevel(childIDs []uint32, level uint16) []uint32 {
	c := int(t.capacity)
	numNext := ceilDiv(len(childIDs), c)
	s := maxInt(1, ceilSqrt(numNext))
	w := s * c

	type child struct {
		id  uint32
		mbr geo.Rectangle
	}
	refs := make([]child, len(childIDs))
	for i, id := range childIDs {
		refs[i] = child{id, t.store.Get(id).mbr}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].mbr.MinX < refs[j].mbr.MinX })

	var nextIDs []uint32
	for start := 0; start < len(refs); start += w {
		end := minInt(start+w, len(refs))
		slice := refs[start:end]
		sort.Slice(slice, func(i, j int) bool { return slice[i].mbr.MinY < slice[j].mbr.MinY })

		for s2 := 0; s2 < len(slice); s2 += c {
			e2 := minInt(s2+c, len(slice))
			parent := t.store.New(level, t.capacity)
			for _, ch := range slice[s2:e2] {
				parent.addEntry(ch.mbr, int32(ch.id))
			}
			sortNodeEntriesByMinX(parent)
			nextIDs = append(nextIDs, parent.id)
		}
	}
	return nextIDs
}

// sortNodeEntriesByMinX reorders a freshly packed node's entry arrays in
// place so they're sorted by minX, as the STR loader requires.
func sortNodeEntriesByMinX(n *node) {
	count := len(n.entryID)
	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return n.entryMinX[order[a]] < n.entryMinX[order[b]] })

	minX := make([]float32, count)
	minY := make([]float32, count)
	maxX := make([]float32, count)
	maxY := make([]float32, count)
	ids := make([]int32, count)
	for newPos, oldPos := range order {
		minX[newPos] = n.entryMinX[oldPos]
		minY[newPos] = n.entryMinY[oldPos]
		maxX[newPos] = n.entryMaxX[oldPos]
		maxY[newPos] = n.entryMaxY[oldPos]
		ids[newPos] = n.entryID[oldPos]
	}
	n.entryMinX, n.entryMinY, n.entryMaxX, n.entryMaxY, n.entryID = minX, minY, maxX, maxY, ids
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
