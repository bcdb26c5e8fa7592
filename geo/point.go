// Package geo implements the 2-D geometry primitives the index is built
// on: points, axis-aligned rectangles, and the predicates/metrics the
// tree and query engine need (intersects, contains, area, enlargement,
// squared distance).
package geo

import (
	"fmt"
)

// Point is an immutable 2-D coordinate.
type Point struct {
	X, Y float32
}

// MarshalJSON renders a Point as a two-element array `[x,y]`, the same
// compact encoding the teacher used for map-facing GeoJSON-style output.
func (p Point) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%v,%v]", p.X, p.Y)), nil
}

// UnmarshalJSON parses the `[x,y]` encoding produced by MarshalJSON.
func (p *Point) UnmarshalJSON(b []byte) error {
	var x, y float32
	n, err := fmt.Sscanf(string(b), "[%f,%f]", &x, &y)
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("geo: malformed point %q", string(b))
	}
	p.X, p.Y = x, y
	return nil
}
