package document

import (
	"errors"
	"testing"

	"github.com/ctessum/geom"
)

func strokeOf(pts ...float64) *Stroke {
	s := NewStroke(DefaultInk, 1, 1)
	for i := 0; i+1 < len(pts); i += 2 {
		s.Append(pts[i], pts[i+1])
	}
	return s
}

type shift struct{ dx, dy float64 }

func (m shift) ToDocument(p geom.Point) geom.Point {
	return geom.Point{X: p.X + m.dx, Y: p.Y + m.dy}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#0000ff", Color{B: 255}, false},
		{"ff8000", Color{R: 255, G: 128}, false},
		{" #FFFFFF ", Color{R: 255, G: 255, B: 255}, false},
		{"#fff", Color{}, true},
		{"#gg0000", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidColor) {
				t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	if got := (Color{R: 1, G: 171, B: 255}).Hex(); got != "#01abff" {
		t.Errorf("Hex() = %q, want %q", got, "#01abff")
	}
}

func TestStrokeToDocumentSpace(t *testing.T) {
	s := strokeOf(0, 0, 1, 2)
	doc := s.ToDocumentSpace(shift{dx: 10, dy: -1})
	if doc == s {
		t.Fatal("ToDocumentSpace returned the receiver")
	}
	if doc.ID != s.ID || doc.Color != s.Color {
		t.Errorf("ToDocumentSpace changed identity or style")
	}
	want := []geom.Point{{X: 10, Y: -1}, {X: 11, Y: 1}}
	for i, p := range doc.Points {
		if p != want[i] {
			t.Errorf("point %d = %v, want %v", i, p, want[i])
		}
	}
	if s.Points[0] != (geom.Point{}) {
		t.Errorf("source stroke was modified: %v", s.Points)
	}
}

func TestStrokeEnvelope(t *testing.T) {
	b := strokeOf(3, 4, -1, 8, 2, 0).Envelope()
	if b.Min != (geom.Point{X: -1, Y: 0}) || b.Max != (geom.Point{X: 3, Y: 8}) {
		t.Errorf("Envelope() = %v", b)
	}
}

func TestStrokeIntersects(t *testing.T) {
	a := strokeOf(0, 0, 10, 0, 10, 10)
	tests := []struct {
		name  string
		other *Stroke
		want  bool
	}{
		{"crossing", strokeOf(5, -5, 5, 15), true},
		{"shared endpoint", strokeOf(10, 10, 20, 20), true},
		{"collinear overlap", strokeOf(5, 0, 15, 0), true},
		{"single point on stroke", strokeOf(10, 5), true},
		{"inside bbox only", strokeOf(2, 5, 4, 8), false},
		{"far away", strokeOf(100, 100, 110, 100), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrokeLengthAndCollapsed(t *testing.T) {
	if got := strokeOf(0, 0, 3, 4, 3, 10).Length(); got != 11 {
		t.Errorf("Length() = %v, want 11", got)
	}
	if !strokeOf(1, 1, 1, 1).Collapsed() {
		t.Error("Collapsed() = false for repeated point")
	}
	if strokeOf(1, 1, 1, 2).Collapsed() {
		t.Error("Collapsed() = true for a real segment")
	}
}

func TestStrokeClone(t *testing.T) {
	s := strokeOf(0, 0, 1, 1)
	c := s.Clone()
	c.Points[0].X = 5
	if s.Points[0].X != 0 {
		t.Error("Clone shares its point slice with the source")
	}
}
