package engine

import (
	"math"

	"github.com/ctessum/geom"
)

// Zoom limits on either axis scale.
const (
	MinScale = 1e-6
	MaxScale = 1e6
)

// Viewport maps document space to a Width x Height pixel screen.
type Viewport struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Transform Matrix2D `json:"transform"` // document → screen
}

func NewViewport() Viewport {
	return Viewport{Transform: Identity()}
}

// Resize sets the screen size. The transform is unchanged.
func (v *Viewport) Resize(width, height int) {
	v.Width = max(width, 0)
	v.Height = max(height, 0)
}

// Pan scrolls the view by (dx, dy) screen pixels: the content moves by
// (-dx, -dy) on screen.
func (v *Viewport) Pan(dx, dy float64) {
	v.Transform = Translate(-dx, -dy).Multiply(v.Transform)
}

// Zoom scales the view by 1+delta about the screen point anchor, which keeps
// pointing at the same document point. It reports false and leaves v alone
// when the result would leave [MinScale, MaxScale] or stop being invertible.
func (v *Viewport) Zoom(delta float64, anchor geom.Point) bool {
	f := 1 + delta
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	next := Translate(anchor.X, anchor.Y).
		Multiply(Scale(f, f)).
		Multiply(Translate(-anchor.X, -anchor.Y)).
		Multiply(v.Transform)

	sx, sy := next.ScaleFactors()
	if sx <= MinScale || sy <= MinScale || sx > MaxScale || sy > MaxScale {
		return false
	}
	if _, ok := next.Inverse(); !ok {
		return false
	}
	v.Transform = next
	return true
}

func (v Viewport) ToScreen(p geom.Point) geom.Point {
	return v.Transform.Apply(p)
}

// ToDocument maps a screen point back to document space. It panics if the
// transform is singular, which Zoom never allows.
func (v Viewport) ToDocument(p geom.Point) geom.Point {
	inv, ok := v.Transform.Inverse()
	if !ok {
		panic("engine: viewport transform is singular")
	}
	return inv.Apply(p)
}

// VisibleDocumentRegion returns the document-space box covering the whole
// screen rectangle.
func (v Viewport) VisibleDocumentRegion() *geom.Bounds {
	inv, ok := v.Transform.Inverse()
	if !ok {
		panic("engine: viewport transform is singular")
	}
	return inv.TransformBounds(&geom.Bounds{
		Max: geom.Point{X: float64(v.Width), Y: float64(v.Height)},
	})
}

// Scale returns the axis scale factors, screen pixels per document unit.
func (v Viewport) Scale() (sx, sy float64) {
	return v.Transform.ScaleFactors()
}

// PixelsToDocument converts a screen distance to document units using the
// mean axis scale.
func (v Viewport) PixelsToDocument(d float64) float64 {
	sx, sy := v.Scale()
	return 2 * d / (sx + sy)
}
