package rtree

import (
	"fmt"

	"github.com/tormol/rstartree/geo"
)

// checkInvariants walks every reachable node and reports every
// violation found, per the optional self-consistency mode (WithConsistencyCheck):
// level expectations, tight MBRs, internal-entry/child-MBR equality, and
// fill-factor bounds.
func (t *Tree) checkInvariants() []string {
	var problems []string

	var walk func(id uint32, expectedLevel uint16)
	walk = func(id uint32, expectedLevel uint16) {
		n := t.store.Get(id)
		if n == nil {
			problems = append(problems, fmt.Sprintf("node %d reachable but missing from store", id))
			return
		}
		if n.level != expectedLevel {
			problems = append(problems, fmt.Sprintf("node %d: level %d, expected %d", id, n.level, expectedLevel))
		}

		count := n.entryCount()
		if id == t.rootID {
			if count > n.capacity {
				problems = append(problems, fmt.Sprintf("root %d: entryCount %d exceeds capacity %d", id, count, n.capacity))
			}
		} else if count < t.minFill || count > n.capacity {
			problems = append(problems, fmt.Sprintf("node %d: entryCount %d out of [%d,%d]", id, count, t.minFill, n.capacity))
		}

		if recomputed := recalculatedMBR(n); recomputed != n.mbr {
			problems = append(problems, fmt.Sprintf("node %d: stored mbr %+v != recomputed %+v", id, n.mbr, recomputed))
		}

		if !n.isLeaf() {
			for i, childID := range n.entryID {
				child := t.store.Get(uint32(childID))
				if child == nil {
					problems = append(problems, fmt.Sprintf("node %d entry %d: child %d missing", id, i, childID))
					continue
				}
				if child.mbr != n.entryRect(i) {
					problems = append(problems, fmt.Sprintf("node %d entry %d: stored rect %+v != child %d mbr %+v", id, i, n.entryRect(i), childID, child.mbr))
				}
				walk(uint32(childID), expectedLevel-1)
			}
		}
	}

	walk(t.rootID, t.height)
	return problems
}

// recalculatedMBR independently recomputes a node's tight bound for
// comparison against the incrementally-maintained n.mbr.
func recalculatedMBR(n *node) geo.Rectangle {
	if len(n.entryID) == 0 {
		return geo.Empty
	}
	r := n.entryRect(0)
	for i := 1; i < len(n.entryID); i++ {
		r = geo.Union(r, n.entryRect(i))
	}
	return r
}
