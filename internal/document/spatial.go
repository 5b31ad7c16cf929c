package document

import (
	"errors"
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

var ErrCollapsedStroke = errors.New("stroke has fewer than two distinct points")

// entry is what the R-tree stores. The embedded LineString gives it the
// envelope the tree indexes by.
type entry struct {
	geom.LineString
	stroke *Stroke
}

// SpatialDocument is the set of committed strokes, indexed by envelope.
// Strokes must not be mutated while they are in the document.
type SpatialDocument struct {
	tree *rtree.Rtree
	byID map[string]*entry
}

func NewSpatialDocument() *SpatialDocument {
	return &SpatialDocument{
		tree: rtree.NewTree(25, 50),
		byID: make(map[string]*entry),
	}
}

// Insert indexes s. A stroke with the same id is replaced. Strokes without
// two distinct points are refused.
func (d *SpatialDocument) Insert(s *Stroke) error {
	if s.Collapsed() {
		return ErrCollapsedStroke
	}
	d.Remove(s.ID)
	e := &entry{LineString: geom.LineString(s.Points), stroke: s}
	d.tree.Insert(e)
	d.byID[s.ID] = e
	return nil
}

// QueryRange returns the strokes whose envelope intersects region, in index
// order.
func (d *SpatialDocument) QueryRange(region *geom.Bounds) []*Stroke {
	found := d.tree.SearchIntersect(region)
	out := make([]*Stroke, 0, len(found))
	for _, g := range found {
		out = append(out, g.(*entry).stroke)
	}
	return out
}

// DrainRange removes and returns the strokes whose envelope intersects
// region.
func (d *SpatialDocument) DrainRange(region *geom.Bounds) []*Stroke {
	out := d.QueryRange(region)
	for _, s := range out {
		d.Remove(s.ID)
	}
	return out
}

// RemoveWithinRadius removes and returns every stroke that has at least one
// point within r of p.
func (d *SpatialDocument) RemoveWithinRadius(p geom.Point, r float64) []*Stroke {
	var out []*Stroke
	for _, s := range d.QueryRange(rtree.ToRect(p, r)) {
		for _, q := range s.Points {
			if math.Hypot(q.X-p.X, q.Y-p.Y) <= r {
				out = append(out, s)
				break
			}
		}
	}
	for _, s := range out {
		d.Remove(s.ID)
	}
	return out
}

// Remove deletes the stroke with the given id. It reports false if there
// was none.
func (d *SpatialDocument) Remove(id string) bool {
	e, ok := d.byID[id]
	if !ok {
		return false
	}
	d.tree.Delete(e)
	delete(d.byID, id)
	return true
}

func (d *SpatialDocument) Get(id string) (*Stroke, bool) {
	e, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return e.stroke, true
}

func (d *SpatialDocument) Len() int { return len(d.byID) }

// All returns every stroke ordered by id.
func (d *SpatialDocument) All() []*Stroke {
	out := make([]*Stroke, 0, len(d.byID))
	for _, e := range d.byID {
		out = append(out, e.stroke)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
