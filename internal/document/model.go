package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/geom"

	"github.com/inkboard/inkboard/internal/geometry"
	"github.com/inkboard/inkboard/internal/typeid"
)

var ErrInvalidColor = errors.New("invalid color")

// Color is an opaque RGB triple. Alpha lives on the stroke.
type Color struct {
	R, G, B uint8
}

var (
	DefaultInk = Color{R: 0, G: 0, B: 255}
	// EraserColor marks in-progress eraser strokes. It is never committed
	// as ink.
	EraserColor = Color{R: 255, G: 255, B: 255}
)

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseColor accepts #rrggbb or rrggbb.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Decode lets envconfig read colors from the environment.
func (c *Color) Decode(value string) error {
	parsed, err := ParseColor(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *Color) UnmarshalText(b []byte) error { return c.Decode(string(b)) }

// CoordinateMapper converts a screen point to document space.
type CoordinateMapper interface {
	ToDocument(p geom.Point) geom.Point
}

// Stroke is a styled polyline. Points are in screen space while the stroke
// is being drawn and in document space once committed.
type Stroke struct {
	ID     string       `json:"id"`
	Points []geom.Point `json:"points"`
	Color  Color        `json:"color"`
	Alpha  float64      `json:"alpha"`
	// Width is the nominal line width in document units. Renderers use it;
	// geometry ignores it.
	Width float64 `json:"width"`
}

// NewStroke creates an empty stroke with a fresh id.
func NewStroke(color Color, alpha, width float64) *Stroke {
	return &Stroke{
		ID:    typeid.NewStrokeID(),
		Color: color,
		Alpha: alpha,
		Width: width,
	}
}

func (s *Stroke) Append(x, y float64) {
	s.Points = append(s.Points, geom.Point{X: x, Y: y})
}

// ToDocumentSpace returns a copy of s with every point mapped through m.
// The id and style are kept.
func (s *Stroke) ToDocumentSpace(m CoordinateMapper) *Stroke {
	out := &Stroke{
		ID:     s.ID,
		Points: make([]geom.Point, len(s.Points)),
		Color:  s.Color,
		Alpha:  s.Alpha,
		Width:  s.Width,
	}
	for i, p := range s.Points {
		out.Points[i] = m.ToDocument(p)
	}
	return out
}

// Envelope returns the axis-aligned bounding box of all points.
func (s *Stroke) Envelope() *geom.Bounds {
	return geom.LineString(s.Points).Bounds()
}

// Segments returns the stroke as consecutive segments. A single point gives
// one zero-length segment.
func (s *Stroke) Segments() []geometry.Segment {
	return geometry.Polyline(s.Points)
}

// Intersects reports whether any segment of s touches any segment of other.
func (s *Stroke) Intersects(other *Stroke) bool {
	return geometry.AnyIntersection(s.Segments(), other.Segments())
}

func (s *Stroke) Length() float64 {
	return geom.LineString(s.Points).Length()
}

// Collapsed reports whether the stroke has fewer than two distinct points.
func (s *Stroke) Collapsed() bool {
	for _, p := range s.Points[min(1, len(s.Points)):] {
		if !p.Equals(s.Points[0]) {
			return false
		}
	}
	return true
}

func (s *Stroke) Clone() *Stroke {
	out := *s
	out.Points = append([]geom.Point(nil), s.Points...)
	return &out
}
