package engine

import (
	"math"

	"github.com/ctessum/geom"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/geometry"
)

// SplitResult summarises a split erase.
type SplitResult struct {
	Erased  []*document.Stroke // strokes removed from the document
	Created []*document.Stroke // surviving pieces inserted in their place
}

// ObjectErase deletes every stroke whose geometry touches q and returns the
// deleted strokes. q must be in document space.
func ObjectErase(doc *document.SpatialDocument, q *document.Stroke) []*document.Stroke {
	if len(q.Points) == 0 {
		return nil
	}
	var erased []*document.Stroke
	for _, c := range doc.DrainRange(q.Envelope()) {
		if c.Intersects(q) {
			erased = append(erased, c)
			continue
		}
		reinsert(doc, c)
	}
	return erased
}

// SplitErase removes the parts of strokes lying within radius of q. q may be
// a path or a single point. Touched strokes are replaced by their surviving
// pieces, which get fresh ids; untouched strokes keep theirs.
func SplitErase(doc *document.SpatialDocument, q *document.Stroke, radius float64) SplitResult {
	var res SplitResult
	pts := dedupe(q.Points)
	if len(pts) == 0 || radius < 0 {
		return res
	}
	clips := geometry.Polyline(pts)

	for _, c := range doc.DrainRange(geometry.Grow(q.Envelope(), radius)) {
		pieces, touched := splitStroke(c, clips, radius)
		if !touched {
			reinsert(doc, c)
			continue
		}
		res.Erased = append(res.Erased, c)
		for _, p := range pieces {
			s := document.NewStroke(c.Color, c.Alpha, c.Width)
			s.Points = p
			if s.Collapsed() {
				continue
			}
			reinsert(doc, s)
			res.Created = append(res.Created, s)
		}
	}
	return res
}

// RemoveNear deletes strokes having a point within radius of p.
func RemoveNear(doc *document.SpatialDocument, p geom.Point, radius float64) []*document.Stroke {
	return doc.RemoveWithinRadius(p, radius)
}

func reinsert(doc *document.SpatialDocument, s *document.Stroke) {
	if err := doc.Insert(s); err != nil {
		Logger().Warn("dropping stroke", "strokeId", s.ID, "error", err)
	}
}

// splitStroke cuts s against the capsules of radius r around clips. It
// returns the kept point runs and whether anything was erased.
func splitStroke(s *document.Stroke, clips []geometry.Segment, r float64) ([][]geom.Point, bool) {
	pts := dedupe(s.Points)
	if len(pts) == 1 {
		for _, c := range clips {
			if c.DistanceToPoint(pts[0]) <= r {
				return nil, true
			}
		}
		return nil, false
	}

	segs := geometry.Polyline(pts)
	erased := make([][]geometry.Interval, len(segs))
	near := make([][]geometry.Segment, len(segs))
	for _, p := range geometry.SweepPairs(segs, clips, r) {
		near[p.Subject] = append(near[p.Subject], clips[p.Clip])
		if iv, ok := geometry.ClipCapsule(segs[p.Subject], clips[p.Clip], r); ok {
			erased[p.Subject] = append(erased[p.Subject], iv)
		}
	}
	touched := false
	for i := range erased {
		erased[i] = geometry.MergeIntervals(erased[i])
		if len(erased[i]) > 0 {
			touched = true
		}
	}
	if !touched {
		return nil, false
	}

	var (
		pieces [][]geom.Point
		cur    []geom.Point
	)
	flush := func() {
		if len(cur) > 1 {
			pieces = append(pieces, cur)
		}
		cur = nil
	}
	for i, sg := range segs {
		outside := func(p geom.Point) bool {
			for _, c := range near[i] {
				if c.DistanceToPoint(p) <= r {
					return false
				}
			}
			return true
		}
		// open is set when the run reaches sg.B and may continue into the
		// next segment.
		open := false
		for _, k := range geometry.Complement(erased[i]) {
			lo, okLo := pullOut(sg, k.Lo, k.Hi, outside)
			hi, okHi := pullOut(sg, k.Hi, k.Lo, outside)
			if !okLo || !okHi || lo >= hi {
				flush()
				continue
			}
			if lo > 0 {
				flush()
				cur = append(cur, sg.At(lo))
			} else if len(cur) == 0 {
				cur = append(cur, sg.A)
			}
			if hi < 1 {
				cur = append(cur, sg.At(hi))
				flush()
			} else {
				cur = append(cur, sg.B)
				open = true
			}
		}
		if !open {
			flush()
		}
	}
	flush()
	return pieces, true
}

// pullOut moves the parameter t toward limit until sg.At(t) is strictly
// outside the eraser. It reports false if no such point lies before limit.
func pullOut(sg geometry.Segment, t, limit float64, outside func(geom.Point) bool) (float64, bool) {
	if outside(sg.At(t)) {
		return t, true
	}
	gap := limit - t
	if gap == 0 {
		return t, false
	}
	for step := gap / (1 << 40); math.Abs(step) <= math.Abs(gap); step *= 2 {
		if u := t + step; outside(sg.At(u)) {
			return u, true
		}
	}
	return t, false
}

// dedupe drops consecutive repeated points.
func dedupe(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p.Equals(pts[i-1]) {
			continue
		}
		out = append(out, p)
	}
	return out
}
