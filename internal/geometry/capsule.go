package geometry

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
)

// MinSpan is the shortest parameter gap Complement reports as kept.
const MinSpan = 1e-9

// Interval is a closed range [Lo, Hi] of segment parameters.
type Interval struct {
	Lo, Hi float64
}

// Len returns Hi-Lo.
func (iv Interval) Len() float64 { return iv.Hi - iv.Lo }

// ClipCapsule returns the parameter interval of s lying within distance r of
// segment c. The capsule around c is convex, so the result is a single
// interval. ok is false when s stays outside the capsule.
func ClipCapsule(s, c Segment, r float64) (Interval, bool) {
	if r < 0 {
		return Interval{}, false
	}
	if s.Degenerate() {
		if c.DistanceToPoint(s.A) <= r {
			return Interval{Lo: 0, Hi: 1}, true
		}
		return Interval{}, false
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	add := func(a, b float64) {
		if a > b {
			return
		}
		lo = math.Min(lo, a)
		hi = math.Max(hi, b)
	}

	if a, b, ok := clipDisk(s, c.A, r); ok {
		add(a, b)
	}
	if !c.Degenerate() {
		if a, b, ok := clipDisk(s, c.B, r); ok {
			add(a, b)
		}
		if a, b, ok := clipSlab(s, c, r); ok {
			add(a, b)
		}
	}

	lo = math.Max(lo, 0)
	hi = math.Min(hi, 1)
	if lo > hi {
		return Interval{}, false
	}
	return Interval{Lo: lo, Hi: hi}, true
}

// clipDisk intersects the infinite line through s with the disk of radius r
// at center. The returned parameters are unclamped.
func clipDisk(s Segment, center geom.Point, r float64) (float64, float64, bool) {
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	fx, fy := s.A.X-center.X, s.A.Y-center.Y
	a := dx*dx + dy*dy
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return (-b - sq) / (2 * a), (-b + sq) / (2 * a), true
}

// clipSlab intersects the line through s with the rectangle swept by c when
// it is widened by r on both sides. Liang-Barsky in c's local frame.
func clipSlab(s, c Segment, r float64) (float64, float64, bool) {
	ux, uy := c.B.X-c.A.X, c.B.Y-c.A.Y
	l := math.Hypot(ux, uy)
	ux, uy = ux/l, uy/l

	// s in local coordinates: along = projection on c, across = normal offset.
	px, py := s.A.X-c.A.X, s.A.Y-c.A.Y
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	along0 := px*ux + py*uy
	across0 := -px*uy + py*ux
	dAlong := dx*ux + dy*uy
	dAcross := -dx*uy + dy*ux

	t0, t1 := math.Inf(-1), math.Inf(1)
	clip := func(p, d, min, max float64) bool {
		if d == 0 {
			return p >= min && p <= max
		}
		a, b := (min-p)/d, (max-p)/d
		if a > b {
			a, b = b, a
		}
		t0 = math.Max(t0, a)
		t1 = math.Min(t1, b)
		return t0 <= t1
	}
	if !clip(along0, dAlong, 0, l) {
		return 0, 0, false
	}
	if !clip(across0, dAcross, -r, r) {
		return 0, 0, false
	}
	return t0, t1, true
}

// MergeIntervals sorts and unions overlapping intervals. Zero-length
// intervals are kept: a tangent contact still erases that point.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	out := append([]Interval(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Lo < out[j].Lo })

	merged := out[:1]
	for _, iv := range out[1:] {
		last := &merged[len(merged)-1]
		if iv.Lo <= last.Hi {
			last.Hi = math.Max(last.Hi, iv.Hi)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Complement returns the parts of [0,1] not covered by the merged, sorted
// intervals. Gaps shorter than MinSpan are dropped.
func Complement(merged []Interval) []Interval {
	var out []Interval
	cur := 0.0
	for _, iv := range merged {
		if iv.Lo-cur >= MinSpan {
			out = append(out, Interval{Lo: cur, Hi: iv.Lo})
		}
		cur = math.Max(cur, iv.Hi)
	}
	if 1-cur >= MinSpan {
		out = append(out, Interval{Lo: cur, Hi: 1})
	}
	return out
}
