package rtree

import (
	"time"

	"github.com/tormol/rstartree/geo"
	"github.com/tormol/rstartree/rlog"
)

// Tree is a single-writer, many-concurrent-reader R-tree. All mutating
// methods (Insert, Delete, BulkLoad) must not be called concurrently
// with each other or with queries; queries themselves are safe to run
// concurrently against a tree that isn't being mutated, since all query
// state (traversal stacks, heaps, results) lives on the call stack.
type Tree struct {
	store      *nodeStore
	rootID     uint32
	height     uint16
	size       uint64
	capacity   uint32
	minFill    uint32

	consistencyCheckEnabled bool
	logger                  *rlog.Logger
	wantPeriodicStats       bool
	periodicStatsMin        time.Duration
	periodicStatsMax        time.Duration
}

// New creates an empty tree with the given node capacity and minimum
// fill factor. Defaults matching spec: capacity=50, minFill=20 are the
// caller's responsibility to pass; New itself has no defaults baked in
// so both instances used by tests (tiny capacities) and production
// sizes go through the same validation.
func New(capacity, minFill uint32) (*Tree, error) {
	return NewWithOptions(capacity, minFill)
}

// NewWithOptions is New plus functional options for ambient diagnostics.
//
// The binding precondition is the one splitNode/pickNext actually rely
// on to keep both halves of a split in range (spec.md §3's
// "2·minFill ≤ capacity+1"), plus minFill > 0 so "minimum fill" means
// something. spec.md §6 separately states a literal "4 ≤ minFill", but
// that text contradicts the spec's own Scenario C (capacity=4,
// minFill=2); see SPEC_FULL.md §7 and DESIGN.md for how that's resolved.
func NewWithOptions(capacity, minFill uint32, opts ...Option) (*Tree, error) {
	if minFill == 0 || 2*minFill > capacity+1 {
		return nil, &ConfigError{Capacity: capacity, MinFill: minFill}
	}
	t := &Tree{
		store:    newNodeStore(),
		capacity: capacity,
		minFill:  minFill,
		logger:   rlog.Discard(),
	}
	root := t.store.New(1, capacity)
	t.rootID = root.id
	t.height = 1
	for _, o := range opts {
		o(t)
	}
	t.registerPeriodicStats()
	return t, nil
}

// Size returns the number of leaf entries (stored rectangles).
func (t *Tree) Size() uint64 { return t.size }

// NumNodes returns the number of live nodes in the store.
func (t *Tree) NumNodes() uint64 { return uint64(t.store.Len()) }

// Height returns the tree height (root level; a tree with only a leaf
// root has height 1).
func (t *Tree) Height() uint32 { return uint32(t.height) }

// ancestorFrame records, while descending to a target level, which
// entry of a node was chosen so adjustTree/condenseTree can walk back up.
type ancestorFrame struct {
	nodeID     uint32
	entryIndex int
}

// Insert adds (r, id) at leaf level.
func (t *Tree) Insert(r geo.Rectangle, id int32) {
	r.ID = id
	r.HasID = true
	t.insertAt(r, id, 1)
	t.size++
	t.runConsistencyCheck("Insert")
}

// insertAt is the generalized insert used directly by Insert (level 1)
// and by condenseTree's orphan reinsertion (preserving the orphan's
// original level).
func (t *Tree) insertAt(r geo.Rectangle, id int32, level uint16) {
	var stack []ancestorFrame
	cur := t.store.Get(t.rootID)
	for cur.level > level {
		idx := chooseSubtreeIndex(cur, r)
		stack = append(stack, ancestorFrame{cur.id, idx})
		cur = t.store.Get(uint32(cur.entryID[idx]))
	}

	var newSibling *node
	if cur.entryCount() < cur.capacity {
		cur.addEntry(r, id)
	} else {
		newSibling = t.splitNode(cur, r, id)
	}
	t.adjustTree(cur, stack, newSibling)
}

// chooseSubtreeIndex picks the child entry minimizing enlargement,
// breaking ties by smaller child area (Guttman's ChooseLeaf).
func chooseSubtreeIndex(n *node, r geo.Rectangle) int {
	best := 0
	bestRect := n.entryRect(0)
	bestEnl := geo.Enlargement(bestRect, r)
	bestArea := geo.Area(bestRect)
	for i := 1; i < len(n.entryID); i++ {
		rect := n.entryRect(i)
		enl := geo.Enlargement(rect, r)
		if enl < bestEnl || (enl == bestEnl && geo.Area(rect) < bestArea) {
			best, bestEnl, bestArea = i, enl, geo.Area(rect)
		}
	}
	return best
}

// adjustTree walks the traversal stack from the insertion point back to
// the root, updating parent entries to match children's current MBRs
// and propagating any pending split (newSibling) upward. If a sibling is
// still pending once the root is reached, the tree grows a new root.
func (t *Tree) adjustTree(cur *node, stack []ancestorFrame, newSibling *node) {
	for i := len(stack) - 1; i >= 0; i-- {
		f := stack[i]
		parent := t.store.Get(f.nodeID)
		parent.updateEntryRect(f.entryIndex, cur.mbr)

		if newSibling != nil {
			if parent.entryCount() < parent.capacity {
				parent.addEntry(newSibling.mbr, int32(newSibling.id))
				newSibling = nil
			} else {
				newSibling = t.splitNode(parent, newSibling.mbr, int32(newSibling.id))
			}
		}
		cur = parent
	}

	if newSibling != nil {
		t.growRoot(cur, newSibling)
	}
}

// growRoot allocates a new root one level above the current root,
// containing exactly two entries: the old root and its new sibling.
func (t *Tree) growRoot(oldRoot, newSibling *node) {
	newLevel := t.height + 1
	newRoot := t.store.New(newLevel, t.capacity)
	newRoot.addEntry(oldRoot.mbr, int32(oldRoot.id))
	newRoot.addEntry(newSibling.mbr, int32(newSibling.id))
	t.rootID = newRoot.id
	t.height = newLevel
}

func (t *Tree) runConsistencyCheck(op string) {
	if !t.consistencyCheckEnabled {
		return
	}
	for _, problem := range t.checkInvariants() {
		t.logger.Warning("invariant violation after %s: %s", op, problem)
	}
}
