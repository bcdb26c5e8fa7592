package rtree

import "github.com/tormol/rstartree/geo"

// Delete removes the first exact-match (r, id) entry found by a
// depth-first search of every subtree whose MBR contains r. Duplicates
// are allowed (see spec's "Open question: duplicate semantics"): only
// the first match found by traversal order is removed. Returns whether
// an entry was actually removed.
func (t *Tree) Delete(r geo.Rectangle, id int32) bool {
	leafID, index, path, found := t.findLeaf(r, id)
	if !found {
		return false
	}
	leaf := t.store.Get(leafID)
	leaf.deleteEntry(index)

	t.condenseTree(leaf, path)
	t.collapseRoot()
	t.size--
	t.runConsistencyCheck("Delete")
	return true
}

// dfsFrame is one level of the iterative find-leaf traversal: the node
// being visited and the next entry index to try (for resuming after a
// dead-end subtree backtracks).
type dfsFrame struct {
	nodeID uint32
	resume int
}

// findLeaf returns the leaf node id and in-node index of the first
// (r, id) match, plus the ancestor path (root-to-parent) that led there.
func (t *Tree) findLeaf(r geo.Rectangle, id int32) (leafID uint32, index int, path []ancestorFrame, found bool) {
	stack := []dfsFrame{{t.rootID, 0}}
	var cur []ancestorFrame

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := t.store.Get(top.nodeID)

		if n.isLeaf() {
			if o := n.findEntry(r, id); o.IsSome() {
				return top.nodeID, o.Unwrap(), append([]ancestorFrame(nil), cur...), true
			}
			stack = stack[:len(stack)-1]
			if len(cur) > 0 {
				cur = cur[:len(cur)-1]
			}
			continue
		}

		descended := false
		for i := top.resume; i < len(n.entryID); i++ {
			top.resume = i + 1
			if geo.Contains(n.entryRect(i), r) {
				cur = append(cur, ancestorFrame{top.nodeID, i})
				stack = append(stack, dfsFrame{uint32(n.entryID[i]), 0})
				descended = true
				break
			}
		}
		if !descended {
			stack = stack[:len(stack)-1]
			if len(cur) > 0 {
				cur = cur[:len(cur)-1]
			}
		}
	}
	return 0, 0, nil, false
}

// condenseTree ascends from the just-modified leaf to the root. A node
// that drops below minFill is removed from its parent and queued for
// orphan reinsertion; otherwise its parent's entry is brought up to date.
func (t *Tree) condenseTree(leaf *node, path []ancestorFrame) {
	var eliminated []*node
	cur := leaf
	for i := len(path) - 1; i >= 0; i-- {
		f := path[i]
		parent := t.store.Get(f.nodeID)
		if cur.id != t.rootID && cur.entryCount() < t.minFill {
			parent.deleteEntry(f.entryIndex)
			eliminated = append(eliminated, cur)
		} else {
			parent.updateEntryRect(f.entryIndex, cur.mbr)
		}
		cur = parent
	}

	for _, e := range eliminated {
		for i := range e.entryID {
			t.insertAt(e.entryRect(i), e.entryID[i], e.level)
		}
		t.store.Delete(e.id)
	}
}

// collapseRoot repeatedly replaces an internal root with its sole child
// while it has exactly one entry, and resets an empty root's MBR to the
// sentinel.
func (t *Tree) collapseRoot() {
	for {
		root := t.store.Get(t.rootID)
		if root.isLeaf() || len(root.entryID) != 1 {
			break
		}
		childID := uint32(root.entryID[0])
		t.store.Delete(t.rootID)
		t.rootID = childID
		t.height--
	}
	root := t.store.Get(t.rootID)
	if root.isLeaf() && root.isEmpty() {
		root.mbr = geo.Empty
	}
}
