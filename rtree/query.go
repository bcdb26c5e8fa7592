package rtree

import (
	"math"

	"github.com/flier/goutil/pkg/tuple"

	"github.com/tormol/rstartree/geo"
	"github.com/tormol/rstartree/pqueue"
)

// Range returns the ids of all stored rectangles intersecting q, in
// traversal order (a leaf is visited at most once, so no id repeats).
//
// Traversal is an explicit (nodeId, resumeIndex) stack rather than
// recursion, mirroring the original source's parents/parentsEntry
// bookkeeping. Unlike the STR-packed level (which BulkLoad leaves sorted
// by minX), entries reachable only through incremental insert/delete
// aren't guaranteed minX-sorted — deleteEntry's swap-remove can disturb
// that order — so this scan doesn't rely on a minX early-break for
// correctness, only on the full-containment short-circuit below.
func (t *Tree) Range(q geo.Rectangle) []int32 {
	var result []int32
	stack := []dfsFrame{{t.rootID, 0}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := t.store.Get(top.nodeID)

		if n.isLeaf() {
			for i := range n.entryID {
				if geo.Intersects(n.entryRect(i), q) {
					result = append(result, n.entryID[i])
				}
			}
			stack = stack[:len(stack)-1]
			continue
		}

		if top.resume == 0 && geo.Contains(q, n.mbr) {
			collectLeafIDs(t, n, &result)
			stack = stack[:len(stack)-1]
			continue
		}

		advanced := false
		for i := top.resume; i < len(n.entryID); i++ {
			top.resume = i + 1
			if geo.Intersects(n.entryRect(i), q) {
				stack = append(stack, dfsFrame{uint32(n.entryID[i]), 0})
				advanced = true
				break
			}
		}
		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
	return result
}

// collectLeafIDs gathers every leaf entry id under n without filtering,
// used when a whole subtree is already known to lie inside the query.
func collectLeafIDs(t *Tree, n *node, out *[]int32) {
	if n.isLeaf() {
		*out = append(*out, n.entryID...)
		return
	}
	for _, childID := range n.entryID {
		collectLeafIDs(t, t.store.Get(uint32(childID)), out)
	}
}

// NearestN returns the k stored entries closest to p by squared
// distance, ascending, using best-first search: a min-heap of node
// candidates bounds work to nodes that could still beat the current
// k-th best, held in a bounded max-heap.
func (t *Tree) NearestN(p geo.Point, k uint32) []tuple.T2[float32, int32] {
	if k == 0 || t.size == 0 {
		return nil
	}

	candidates := pqueue.New(false) // ascending: smallest distSq first
	results := pqueue.New(true)     // descending: top is the current worst of the k best

	root := t.store.Get(t.rootID)
	candidates.Insert(int32(root.id), geo.DistanceSq(root.mbr, p.X, p.Y))

	tau := float32(math.Inf(1))
	for candidates.Len() > 0 {
		item, _ := candidates.Pop()
		if uint32(results.Len()) == k && item.Priority >= tau {
			break
		}
		n := t.store.Get(uint32(item.Value))

		if !n.isLeaf() {
			for i := range n.entryID {
				rect := n.entryRect(i)
				ed := geo.DistanceSq(rect, p.X, p.Y)
				if ed <= tau || uint32(results.Len()) < k {
					candidates.Insert(n.entryID[i], ed)
				}
			}
			continue
		}

		for i := range n.entryID {
			ed := geo.DistanceSq(n.entryRect(i), p.X, p.Y)
			if uint32(results.Len()) < k {
				results.Insert(n.entryID[i], ed)
				if uint32(results.Len()) == k {
					top, _ := results.Peek()
					tau = top.Priority
				}
			} else if ed < tau {
				results.Pop()
				results.Insert(n.entryID[i], ed)
				top, _ := results.Peek()
				tau = top.Priority
			}
		}
	}

	out := make([]tuple.T2[float32, int32], results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		item, _ := results.Pop()
		out[i] = tuple.New2(item.Priority, item.Value)
	}
	return out
}

type nodePair struct {
	aID, bID uint32
}

// Join enumerates every pair of ids (a,b) whose rectangles intersect,
// one tree pruned by the other's MBR, descending both trees together
// through a single explicit stack of node-id pairs. Unlike Range, which has a root-of-query-side single tree to
// traverse, here both sides narrow each other down. As with Range, this
// scans each node's entries in full rather than relying on minX-sorted
// early termination, since that order isn't preserved across deletions.
func (t *Tree) Join(other *Tree) map[int32][]int32 {
	result := make(map[int32][]int32)
	stack := []nodePair{{t.rootID, other.rootID}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		a := t.store.Get(p.aID)
		b := other.store.Get(p.bID)
		if !geo.Intersects(a.mbr, b.mbr) {
			continue
		}

		switch {
		case a.isLeaf() && b.isLeaf():
			for i := range a.entryID {
				ra := a.entryRect(i)
				for j := range b.entryID {
					if geo.Intersects(ra, b.entryRect(j)) {
						result[a.entryID[i]] = append(result[a.entryID[i]], b.entryID[j])
					}
				}
			}
		case !a.isLeaf() && !b.isLeaf():
			for i := range a.entryID {
				ca := a.entryRect(i)
				for j := range b.entryID {
					if geo.Intersects(ca, b.entryRect(j)) {
						stack = append(stack, nodePair{uint32(a.entryID[i]), uint32(b.entryID[j])})
					}
				}
			}
		case a.isLeaf(): // a leaf, b internal: descend into b only
			for j := range b.entryID {
				if geo.Intersects(a.mbr, b.entryRect(j)) {
					stack = append(stack, nodePair{p.aID, uint32(b.entryID[j])})
				}
			}
		default: // a internal, b leaf: descend into a only
			for i := range a.entryID {
				if geo.Intersects(a.entryRect(i), b.mbr) {
					stack = append(stack, nodePair{uint32(a.entryID[i]), p.bID})
				}
			}
		}
	}
	return result
}
