package rtree

import "github.com/tormol/rstartree/geo"

// splitPool holds the capacity+1 candidate entries being redistributed
// by splitNode: n's existing entries plus the one that overflowed it.
type splitPool struct {
	minX, minY, maxX, maxY []float32
	ids                    []int32
}

func (p *splitPool) rect(i int) geo.Rectangle {
	return geo.Rectangle{MinX: p.minX[i], MinY: p.minY[i], MaxX: p.maxX[i], MaxY: p.maxY[i]}
}

func (p *splitPool) len() int { return len(p.ids) }

// splitNode redistributes n's entries plus (newRect, newID) between n
// (reused) and a freshly allocated node m at the same level, via
// Guttman's quadratic pickSeeds/pickNext. No forced reinsertion: unlike
// the R*-tree variant, a node that overflows only ever redistributes its
// own entries.
func (t *Tree) splitNode(n *node, newRect geo.Rectangle, newID int32) *node {
	pool := &splitPool{
		minX: append(append([]float32{}, n.entryMinX...), newRect.MinX),
		minY: append(append([]float32{}, n.entryMinY...), newRect.MinY),
		maxX: append(append([]float32{}, n.entryMaxX...), newRect.MaxX),
		maxY: append(append([]float32{}, n.entryMaxY...), newRect.MaxY),
		ids:  append(append([]int32{}, n.entryID...), newID),
	}
	total := pool.len()
	assigned := make([]bool, total)

	seed1, seed2 := pickSeeds(pool)

	m := t.store.New(n.level, n.capacity)
	n.reset()

	n.addEntry(pool.rect(seed1), pool.ids[seed1])
	m.addEntry(pool.rect(seed2), pool.ids[seed2])
	assigned[seed1] = true
	assigned[seed2] = true
	remaining := total - 2
	minFill := int(t.minFill)

	for remaining > 0 {
		nNeed := minFill - int(n.entryCount())
		mNeed := minFill - int(m.entryCount())
		if nNeed >= remaining {
			assignAllRemaining(n, pool, assigned)
			break
		}
		if mNeed >= remaining {
			assignAllRemaining(m, pool, assigned)
			break
		}

		idx := pickNext(n, m, pool, assigned)
		assignTo(pickGroup(n, m, pool, idx), pool, idx)
		assigned[idx] = true
		remaining--
	}
	return m
}

func assignAllRemaining(target *node, pool *splitPool, assigned []bool) {
	for i := 0; i < pool.len(); i++ {
		if !assigned[i] {
			assignTo(target, pool, i)
			assigned[i] = true
		}
	}
}

func assignTo(target *node, pool *splitPool, idx int) {
	target.addEntry(pool.rect(idx), pool.ids[idx])
}

// pickSeeds chooses the two entries that are the most wasteful to put in
// the same group, scanning each axis in turn (X then Y) for the entry
// pair with the greatest normalized separation.
func pickSeeds(pool *splitPool) (int, int) {
	bestSep := float32(-1)
	var bestI, bestJ int

	considerAxis := func(lo, hi []float32) {
		highestLowIdx, lowestHighIdx := 0, 0
		highestLow, lowestHigh := lo[0], hi[0]
		axisMin, axisMax := lo[0], hi[0]
		for i := 1; i < len(lo); i++ {
			if lo[i] > highestLow {
				highestLow, highestLowIdx = lo[i], i
			}
			if hi[i] < lowestHigh {
				lowestHigh, lowestHighIdx = hi[i], i
			}
			if lo[i] < axisMin {
				axisMin = lo[i]
			}
			if hi[i] > axisMax {
				axisMax = hi[i]
			}
		}
		span := axisMax - axisMin
		var norm float32
		if span == 0 {
			norm = 1.0
		} else {
			norm = (highestLow - lowestHigh) / span
		}
		if norm > bestSep {
			bestSep, bestI, bestJ = norm, highestLowIdx, lowestHighIdx
		}
	}

	considerAxis(pool.minX, pool.maxX)
	considerAxis(pool.minY, pool.maxY)
	if bestI == bestJ {
		// Degenerate pool (e.g. every candidate at the same point on the
		// winning axis): fall back to any two distinct entries.
		bestJ = (bestI + 1) % pool.len()
	}
	return bestI, bestJ
}

// pickNext picks the unassigned candidate whose enlargement preference
// between the two groups is most pronounced.
func pickNext(n, m *node, pool *splitPool, assigned []bool) int {
	best := -1
	var bestD float32
	for i := 0; i < pool.len(); i++ {
		if assigned[i] {
			continue
		}
		rect := pool.rect(i)
		d := absf32(geo.Enlargement(n.mbr, rect) - geo.Enlargement(m.mbr, rect))
		if best == -1 || d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

// pickGroup decides which of n/m the candidate at idx should join:
// smaller enlargement wins, ties broken by smaller resulting area, then
// by smaller current entry count, defaulting to n.
func pickGroup(n, m *node, pool *splitPool, idx int) *node {
	rect := pool.rect(idx)
	en := geo.Enlargement(n.mbr, rect)
	em := geo.Enlargement(m.mbr, rect)
	if en < em {
		return n
	}
	if em < en {
		return m
	}
	an, am := geo.Area(n.mbr), geo.Area(m.mbr)
	if an < am {
		return n
	}
	if am < an {
		return m
	}
	if n.entryCount() <= m.entryCount() {
		return n
	}
	return m
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
