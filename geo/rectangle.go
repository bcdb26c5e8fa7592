package geo

import "math"

// Rectangle is an axis-aligned bounding box, optionally carrying the
// external identifier of the leaf entry it belongs to. Internal-use
// rectangles (node MBRs, split candidates) leave HasID false.
//
// Invariant: MinX <= MaxX && MinY <= MaxY, except for Empty.
type Rectangle struct {
	MinX, MinY, MaxX, MaxY float32
	ID                      int32
	HasID                   bool
}

// Empty is the sentinel rectangle for a node with no entries. Its area is
// deliberately computed, not clamped: see Area and Enlargement for how
// callers must treat it.
var Empty = Rectangle{
	MinX: float32(math.Inf(1)), MinY: float32(math.Inf(1)),
	MaxX: float32(math.Inf(-1)), MaxY: float32(math.Inf(-1)),
}

// New builds a leaf rectangle carrying id. Callers constructing internal
// (non-leaf) rectangles should use Rectangle{...} directly and leave
// HasID false.
func New(minX, minY, maxX, maxY float32, id int32) Rectangle {
	return Rectangle{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY, ID: id, HasID: true}
}

// Intersects reports whether a and b share any point, edges inclusive.
func Intersects(a, b Rectangle) bool {
	return a.MaxX >= b.MinX && a.MinX <= b.MaxX &&
		a.MaxY >= b.MinY && a.MinY <= b.MaxY
}

// Contains reports whether outer covers inner on both axes, inclusive.
func Contains(outer, inner Rectangle) bool {
	return outer.MinX <= inner.MinX && outer.MaxX >= inner.MaxX &&
		outer.MinY <= inner.MinY && outer.MaxY >= inner.MaxY
}

// Area returns (maxX-minX)*(maxY-minY). On the Empty sentinel this
// saturates to +Inf because both factors are -Inf; callers that enlarge
// a node's MBR must treat that as "infinite", not "negative", which is
// exactly what Enlargement does below.
func Area(r Rectangle) float32 {
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

// Union returns the tight bounding rectangle of a and b. The result
// never carries an id even if a or b did.
func Union(a, b Rectangle) Rectangle {
	return Rectangle{
		MinX: minf32(a.MinX, b.MinX),
		MinY: minf32(a.MinY, b.MinY),
		MaxX: maxf32(a.MaxX, b.MaxX),
		MaxY: maxf32(a.MaxY, b.MaxY),
	}
}

// Enlargement is the area cost of growing host to also cover r.
func Enlargement(host, r Rectangle) float32 {
	hostArea := Area(host)
	if math.IsInf(float64(hostArea), 1) {
		// Can't meaningfully enlarge an already-infinite (empty-sentinel) region.
		return 0
	}
	unionArea := Area(Union(host, r))
	if math.IsInf(float64(unionArea), 1) {
		return float32(math.Inf(1))
	}
	return unionArea - hostArea
}

// DistanceSq is the squared Euclidean distance from (px,py) to r, zero if
// the point lies inside r. This is the exact formula spec'd to replace
// the source's buggy sqrt-then-compare variant: no sqrt is taken here,
// and callers must compare against squared thresholds.
func DistanceSq(r Rectangle, px, py float32) float32 {
	dx := maxf32(0, maxf32(r.MinX-px, px-r.MaxX))
	dy := maxf32(0, maxf32(r.MinY-py, py-r.MaxY))
	return dx*dx + dy*dy
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
