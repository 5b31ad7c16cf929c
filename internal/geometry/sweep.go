package geometry

import (
	"sort"

	"github.com/ctessum/geom"
	"github.com/google/btree"
)

// Pair names a subject segment and a clip segment whose boxes overlap.
type Pair struct {
	Subject int
	Clip    int
}

type family uint8

const (
	familySubject family = iota
	familyClip
)

type sweepBox struct {
	bounds *geom.Bounds
	fam    family
	id     int
}

type sweepEvent struct {
	x     float64
	start bool
	box   *sweepBox
}

// less orders events by x; at equal x starts come first so that boxes that
// only touch are still reported.
func (e sweepEvent) less(o sweepEvent) bool {
	if e.x != o.x {
		return e.x < o.x
	}
	if e.start != o.start {
		return e.start
	}
	if e.box.fam != o.box.fam {
		return e.box.fam < o.box.fam
	}
	return e.box.id < o.box.id
}

func activeLess(a, b *sweepBox) bool {
	if a.bounds.Min.Y != b.bounds.Min.Y {
		return a.bounds.Min.Y < b.bounds.Min.Y
	}
	return a.id < b.id
}

// SweepPairs finds every (subject, clip) pair whose bounding boxes overlap
// once the clip boxes are grown by pad. It sweeps a vertical line over the
// box edges keeping one active set per family, so only boxes that share an
// x range are ever compared. Pairs come back sorted by subject then clip.
func SweepPairs(subjects, clips []Segment, pad float64) []Pair {
	if len(subjects) == 0 || len(clips) == 0 {
		return nil
	}

	events := make([]sweepEvent, 0, 2*(len(subjects)+len(clips)))
	push := func(b *sweepBox) {
		events = append(events,
			sweepEvent{x: b.bounds.Min.X, start: true, box: b},
			sweepEvent{x: b.bounds.Max.X, start: false, box: b},
		)
	}
	for i, s := range subjects {
		push(&sweepBox{bounds: s.Bounds(), fam: familySubject, id: i})
	}
	for i, c := range clips {
		push(&sweepBox{bounds: Grow(c.Bounds(), pad), fam: familyClip, id: i})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].less(events[j]) })

	active := [2]*btree.BTreeG[*sweepBox]{
		btree.NewG[*sweepBox](16, activeLess),
		btree.NewG[*sweepBox](16, activeLess),
	}

	var pairs []Pair
	for _, ev := range events {
		b := ev.box
		if !ev.start {
			active[b.fam].Delete(b)
			continue
		}
		other := active[1-b.fam]
		other.Ascend(func(o *sweepBox) bool {
			if o.bounds.Min.Y > b.bounds.Max.Y {
				return false
			}
			if o.bounds.Max.Y >= b.bounds.Min.Y {
				if b.fam == familySubject {
					pairs = append(pairs, Pair{Subject: b.id, Clip: o.id})
				} else {
					pairs = append(pairs, Pair{Subject: o.id, Clip: b.id})
				}
			}
			return true
		})
		active[b.fam].ReplaceOrInsert(b)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Subject != pairs[j].Subject {
			return pairs[i].Subject < pairs[j].Subject
		}
		return pairs[i].Clip < pairs[j].Clip
	})
	return pairs
}

// IntersectingPairs returns the pairs of segments from a and b that share a
// point. Candidates come from SweepPairs with no padding and are then
// confirmed with Segment.Intersects.
func IntersectingPairs(a, b []Segment) []Pair {
	var out []Pair
	for _, p := range SweepPairs(a, b, 0) {
		if a[p.Subject].Intersects(b[p.Clip]) {
			out = append(out, p)
		}
	}
	return out
}

// AnyIntersection reports whether some segment of a intersects some segment
// of b.
func AnyIntersection(a, b []Segment) bool {
	for _, p := range SweepPairs(a, b, 0) {
		if a[p.Subject].Intersects(b[p.Clip]) {
			return true
		}
	}
	return false
}
