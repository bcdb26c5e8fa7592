// Package rtree implements an in-memory 2-D R-tree over axis-aligned
// rectangles: incremental Guttman insert/delete, STR bulk loading, and
// range/kNN/join query engines, all addressing nodes by id through an
// owning store rather than parent pointers.
package rtree

import (
	"github.com/flier/goutil/pkg/opt"

	"github.com/tormol/rstartree/geo"
)

// node is one R-tree node. Entry coordinates are kept as parallel
// per-axis arrays rather than an array of structs, for cache-friendly
// scans during range/join traversal and to match the bulk loader's
// tiling, which sorts and re-packs whole columns at a time.
type node struct {
	id       uint32
	level    uint16 // 1 = leaf; increases toward the root
	capacity uint32

	mbr geo.Rectangle

	entryMinX []float32
	entryMinY []float32
	entryMaxX []float32
	entryMaxY []float32
	// entryID holds, per entry, either the external leaf id (level==1)
	// or a child node id (level>1).
	entryID []int32
}

func newNode(id uint32, level uint16, capacity uint32) *node {
	return &node{
		id:        id,
		level:     level,
		capacity:  capacity,
		mbr:       geo.Empty,
		entryMinX: make([]float32, 0, capacity),
		entryMinY: make([]float32, 0, capacity),
		entryMaxX: make([]float32, 0, capacity),
		entryMaxY: make([]float32, 0, capacity),
		entryID:   make([]int32, 0, capacity),
	}
}

// entryCount is the number of live entries.
func (n *node) entryCount() uint32 { return uint32(len(n.entryID)) }

func (n *node) isLeaf() bool  { return n.level == 1 }
func (n *node) isEmpty() bool { return len(n.entryID) == 0 }

// entryRect reconstructs the i'th entry's rectangle (without an id; use
// entryID[i] for that).
func (n *node) entryRect(i int) geo.Rectangle {
	return geo.Rectangle{MinX: n.entryMinX[i], MinY: n.entryMinY[i], MaxX: n.entryMaxX[i], MaxY: n.entryMaxY[i]}
}

// addEntry appends (rect, id) and folds rect into the node's MBR.
// Precondition: entryCount() < capacity; splitting is the caller's job.
func (n *node) addEntry(rect geo.Rectangle, id int32) {
	n.entryMinX = append(n.entryMinX, rect.MinX)
	n.entryMinY = append(n.entryMinY, rect.MinY)
	n.entryMaxX = append(n.entryMaxX, rect.MaxX)
	n.entryMaxY = append(n.entryMaxY, rect.MaxY)
	n.entryID = append(n.entryID, id)
	n.mbr = geo.Union(n.mbr, rect)
}

// findEntry linear-scans for a bit-exact (rect, id) match.
func (n *node) findEntry(rect geo.Rectangle, id int32) opt.Option[int] {
	for i := range n.entryID {
		if n.entryMinX[i] == rect.MinX && n.entryMinY[i] == rect.MinY &&
			n.entryMaxX[i] == rect.MaxX && n.entryMaxY[i] == rect.MaxY &&
			n.entryID[i] == id {
			return opt.Some(i)
		}
	}
	return opt.None[int]()
}

// entryTouchesMBR reports whether entry i lies on an edge of n's MBR,
// i.e. whether removing or shrinking it could change n.mbr.
func (n *node) entryTouchesMBR(i int) bool {
	return n.entryMinX[i] == n.mbr.MinX || n.entryMinY[i] == n.mbr.MinY ||
		n.entryMaxX[i] == n.mbr.MaxX || n.entryMaxY[i] == n.mbr.MaxY
}

// deleteEntry swap-removes entry index with the last entry and
// recomputes the MBR if the removed entry touched it. On an empty node
// the MBR reverts to the sentinel.
func (n *node) deleteEntry(index int) {
	touched := n.entryTouchesMBR(index)
	last := len(n.entryID) - 1
	if index != last {
		n.entryMinX[index] = n.entryMinX[last]
		n.entryMinY[index] = n.entryMinY[last]
		n.entryMaxX[index] = n.entryMaxX[last]
		n.entryMaxY[index] = n.entryMaxY[last]
		n.entryID[index] = n.entryID[last]
	}
	n.entryMinX = n.entryMinX[:last]
	n.entryMinY = n.entryMinY[:last]
	n.entryMaxX = n.entryMaxX[:last]
	n.entryMaxY = n.entryMaxY[:last]
	n.entryID = n.entryID[:last]
	if touched {
		n.recalculateMBR()
	}
}

// recalculateMBR recomputes the tight bound of all present entries, or
// the empty sentinel if none remain.
func (n *node) recalculateMBR() {
	if len(n.entryID) == 0 {
		n.mbr = geo.Empty
		return
	}
	mbr := n.entryRect(0)
	for i := 1; i < len(n.entryID); i++ {
		mbr = geo.Union(mbr, n.entryRect(i))
	}
	n.mbr = mbr
}

// setEntryRect overwrites entry index's coordinates without touching its id.
func (n *node) setEntryRect(index int, r geo.Rectangle) {
	n.entryMinX[index] = r.MinX
	n.entryMinY[index] = r.MinY
	n.entryMaxX[index] = r.MaxX
	n.entryMaxY[index] = r.MaxY
}

// updateEntryRect is used by adjustTree/condenseTree when a child's MBR
// changes: it rewrites the parent's entry and recomputes the parent's
// own MBR only when necessary (the entry touched the old MBR, or the
// new rect isn't covered by it).
func (n *node) updateEntryRect(index int, r geo.Rectangle) {
	oldTouched := n.entryTouchesMBR(index)
	n.setEntryRect(index, r)
	if oldTouched || !geo.Contains(n.mbr, r) {
		n.recalculateMBR()
	}
}

// reset clears all entries, reverting the node to empty. Used by
// splitNode to rebuild the original node's contents from scratch.
func (n *node) reset() {
	n.entryMinX = n.entryMinX[:0]
	n.entryMinY = n.entryMinY[:0]
	n.entryMaxX = n.entryMaxX[:0]
	n.entryMaxY = n.entryMaxY[:0]
	n.entryID = n.entryID[:0]
	n.mbr = geo.Empty
}
