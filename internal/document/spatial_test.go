package document

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/ctessum/geom"
)

func ids(strokes []*Stroke) []string {
	out := make([]string, len(strokes))
	for i, s := range strokes {
		out[i] = s.ID
	}
	sort.Strings(out)
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSpatialDocumentQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	doc := NewSpatialDocument()
	var all []*Stroke
	for i := 0; i < 200; i++ {
		s := NewStroke(DefaultInk, 1, 1)
		x, y := rng.Float64()*1000, rng.Float64()*1000
		for j := 0; j < 2+rng.Intn(5); j++ {
			s.Append(x, y)
			x += rng.Float64()*40 - 20
			y += rng.Float64()*40 - 20
		}
		if err := doc.Insert(s); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		all = append(all, s)
	}

	for i := 0; i < 30; i++ {
		x, y := rng.Float64()*1000, rng.Float64()*1000
		region := &geom.Bounds{
			Min: geom.Point{X: x, Y: y},
			Max: geom.Point{X: x + rng.Float64()*200, Y: y + rng.Float64()*200},
		}
		var want []*Stroke
		for _, s := range all {
			if s.Envelope().Overlaps(region) {
				want = append(want, s)
			}
		}
		if got := ids(doc.QueryRange(region)); !sameIDs(got, ids(want)) {
			t.Errorf("QueryRange(%v) returned %d strokes, want %d", region, len(got), len(want))
		}
	}
}

func TestSpatialDocumentDrainRange(t *testing.T) {
	doc := NewSpatialDocument()
	a := strokeOf(0, 0, 10, 10)
	b := strokeOf(100, 100, 110, 110)
	_ = doc.Insert(a)
	_ = doc.Insert(b)

	got := doc.DrainRange(&geom.Bounds{Min: geom.Point{X: -1, Y: -1}, Max: geom.Point{X: 5, Y: 5}})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("DrainRange() = %v, want [%s]", ids(got), a.ID)
	}
	if doc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", doc.Len())
	}
	if _, ok := doc.Get(a.ID); ok {
		t.Error("drained stroke still present")
	}
	if again := doc.DrainRange(&geom.Bounds{Min: geom.Point{X: -1, Y: -1}, Max: geom.Point{X: 5, Y: 5}}); len(again) != 0 {
		t.Errorf("second DrainRange() = %v, want empty", ids(again))
	}
}

func TestSpatialDocumentRemoveWithinRadius(t *testing.T) {
	doc := NewSpatialDocument()
	near := strokeOf(0, 0, 3, 0)
	// Passes right through the query point but has no vertex near it.
	through := strokeOf(-50, 1, 50, 1)
	far := strokeOf(20, 20, 30, 30)
	for _, s := range []*Stroke{near, through, far} {
		_ = doc.Insert(s)
	}

	got := doc.RemoveWithinRadius(geom.Point{X: 4, Y: 0}, 1.5)
	if !sameIDs(ids(got), []string{near.ID}) {
		t.Errorf("RemoveWithinRadius() = %v, want [%s]", ids(got), near.ID)
	}
	if doc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", doc.Len())
	}
}

func TestSpatialDocumentInsertReplacesSameID(t *testing.T) {
	doc := NewSpatialDocument()
	s := strokeOf(0, 0, 1, 1)
	_ = doc.Insert(s)

	moved := &Stroke{ID: s.ID, Points: []geom.Point{{X: 500, Y: 500}, {X: 501, Y: 501}}}
	_ = doc.Insert(moved)

	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	if got := doc.QueryRange(s.Envelope()); len(got) != 0 {
		t.Errorf("old envelope still indexed: %v", ids(got))
	}
	if got := doc.QueryRange(moved.Envelope()); len(got) != 1 || got[0] != moved {
		t.Errorf("QueryRange(new envelope) = %v, want the replacement", ids(got))
	}
}

func TestSpatialDocumentRemoveMissing(t *testing.T) {
	doc := NewSpatialDocument()
	if doc.Remove("stroke_missing") {
		t.Error("Remove(missing) = true, want false")
	}
}

func TestSpatialDocumentInsertCollapsed(t *testing.T) {
	tests := []struct {
		name string
		s    *Stroke
	}{
		{"no points", strokeOf()},
		{"single point", strokeOf(3, 4)},
		{"repeated point", strokeOf(3, 4, 3, 4, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewSpatialDocument()
			if err := doc.Insert(tt.s); !errors.Is(err, ErrCollapsedStroke) {
				t.Errorf("Insert() error = %v, want ErrCollapsedStroke", err)
			}
			if doc.Len() != 0 {
				t.Errorf("Len() = %d, want 0", doc.Len())
			}
		})
	}
}

func TestSpatialDocumentAllSorted(t *testing.T) {
	doc := NewSampleDocument()
	all := doc.All()
	if len(all) != 3 {
		t.Fatalf("len(All()) = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("All() not sorted at %d", i)
		}
	}
}
