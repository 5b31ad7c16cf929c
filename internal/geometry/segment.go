package geometry

import (
	"math"

	"github.com/ctessum/geom"
)

// Segment is the straight line between two points. A segment whose end
// points coincide is degenerate and behaves like a single point.
type Segment struct {
	A, B geom.Point
}

// Bounds returns the axis-aligned bounding box of the segment.
func (s Segment) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: math.Min(s.A.X, s.B.X), Y: math.Min(s.A.Y, s.B.Y)},
		Max: geom.Point{X: math.Max(s.A.X, s.B.X), Y: math.Max(s.A.Y, s.B.Y)},
	}
}

// Degenerate reports whether both end points are equal.
func (s Segment) Degenerate() bool {
	return s.A.Equals(s.B)
}

// At returns the point at parameter t, where t=0 is A and t=1 is B.
func (s Segment) At(t float64) geom.Point {
	return geom.Point{
		X: s.A.X + t*(s.B.X-s.A.X),
		Y: s.A.Y + t*(s.B.Y-s.A.Y),
	}
}

// Intersects reports whether s and o share at least one point. Touching end
// points and collinear overlap both count.
func (s Segment) Intersects(o Segment) bool {
	o1 := orientation(s.A, s.B, o.A)
	o2 := orientation(s.A, s.B, o.B)
	o3 := orientation(o.A, o.B, s.A)
	o4 := orientation(o.A, o.B, s.B)

	if o1 != o2 && o3 != o4 {
		// A degenerate segment has every orientation equal to zero, so
		// it never reaches here without also being collinear.
		return true
	}

	// Collinear cases: some end point lies on the other segment.
	if o1 == 0 && onSegment(s, o.A) {
		return true
	}
	if o2 == 0 && onSegment(s, o.B) {
		return true
	}
	if o3 == 0 && onSegment(o, s.A) {
		return true
	}
	if o4 == 0 && onSegment(o, s.B) {
		return true
	}
	return false
}

// orientation returns the sign of the turn p→q→r: 1 counter-clockwise,
// -1 clockwise, 0 collinear.
func orientation(p, q, r geom.Point) int {
	v := (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether p, already known to be collinear with s, lies
// within the segment's extent.
func onSegment(s Segment, p geom.Point) bool {
	return p.X >= math.Min(s.A.X, s.B.X) && p.X <= math.Max(s.A.X, s.B.X) &&
		p.Y >= math.Min(s.A.Y, s.B.Y) && p.Y <= math.Max(s.A.Y, s.B.Y)
}

// DistanceToPoint returns the Euclidean distance from p to the closest point
// of s.
func (s Segment) DistanceToPoint(p geom.Point) float64 {
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-s.A.X, p.Y-s.A.Y)
	}
	t := ((p.X-s.A.X)*dx + (p.Y-s.A.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(s.A.X+t*dx), p.Y-(s.A.Y+t*dy))
}

// Distance returns the minimum distance between two segments.
func (s Segment) Distance(o Segment) float64 {
	if s.Intersects(o) {
		return 0
	}
	return math.Min(
		math.Min(s.DistanceToPoint(o.A), s.DistanceToPoint(o.B)),
		math.Min(o.DistanceToPoint(s.A), o.DistanceToPoint(s.B)),
	)
}

// Polyline splits a point sequence into consecutive segments. A single point
// yields one degenerate segment so that it still takes part in intersection
// and distance tests.
func Polyline(points []geom.Point) []Segment {
	switch len(points) {
	case 0:
		return nil
	case 1:
		return []Segment{{A: points[0], B: points[0]}}
	}
	segs := make([]Segment, len(points)-1)
	for i := range segs {
		segs[i] = Segment{A: points[i], B: points[i+1]}
	}
	return segs
}

// Grow returns a copy of b extended by pad on every side.
func Grow(b *geom.Bounds, pad float64) *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: b.Min.X - pad, Y: b.Min.Y - pad},
		Max: geom.Point{X: b.Max.X + pad, Y: b.Max.Y + pad},
	}
}
