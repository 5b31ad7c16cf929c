package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
)

var (
	ErrEmptyFrame    = errors.New("frame has no area")
	ErrInvalidScale  = errors.New("export scale must be positive")
	ErrFrameTooLarge = errors.New("export exceeds the pixel limit")
)

// MaxExportPixels caps the size of an exported page, about 128MB of RGBA.
const MaxExportPixels = 32 << 20

// joinSides is the number of sides used to approximate round caps and joins.
const joinSides = 12

// pixelSize returns the output size of f at scale.
func pixelSize(f *engine.Frame, scale float64) (int, int, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 0, 0, ErrInvalidScale
	}
	fw := math.Ceil(float64(f.Width) * scale)
	fh := math.Ceil(float64(f.Height) * scale)
	if fw <= 0 || fh <= 0 {
		return 0, 0, ErrEmptyFrame
	}
	if fw*fh > MaxExportPixels {
		return 0, 0, fmt.Errorf("%w: %.0fx%.0f", ErrFrameTooLarge, fw, fh)
	}
	return int(fw), int(fh), nil
}

// RenderPNG rasterises the committed strokes of f onto a white canvas.
// Eraser previews are not drawn.
func RenderPNG(f *engine.Frame, scale float64) (*image.RGBA, error) {
	w, h, err := pixelSize(f, scale)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	z := vector.NewRasterizer(w, h)
	for _, cmd := range f.Commands {
		if cmd.Op != engine.OpStroke || len(cmd.Points) == 0 {
			continue
		}
		c, err := document.ParseColor(cmd.Stroke)
		if err != nil {
			return nil, fmt.Errorf("stroke %s: %w", cmd.ObjectID, err)
		}
		z.Reset(w, h)
		z.DrawOp = draw.Over
		tracePolyline(z, cmd.Points, scale, math.Max(cmd.StrokeWidth*scale, 1)/2)
		z.Draw(dst, dst.Bounds(), image.NewUniform(nrgba(c, cmd.Opacity)), image.Point{})
	}
	return dst, nil
}

// WritePNG encodes f as a PNG.
func WritePNG(w io.Writer, f *engine.Frame, scale float64) error {
	img, err := RenderPNG(f, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func nrgba(c document.Color, alpha float64) color.NRGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a * 255))}
}

// tracePolyline adds one quad per segment and a round join at every vertex.
// All polygons share the same winding so overlaps do not cancel.
func tracePolyline(z *vector.Rasterizer, pts [][2]float64, scale, hw float64) {
	for i := range pts {
		x, y := pts[i][0]*scale, pts[i][1]*scale
		traceDisk(z, x, y, hw)
		if i == 0 {
			continue
		}
		px, py := pts[i-1][0]*scale, pts[i-1][1]*scale
		dx, dy := x-px, y-py
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		z.MoveTo(float32(px+nx), float32(py+ny))
		z.LineTo(float32(x+nx), float32(y+ny))
		z.LineTo(float32(x-nx), float32(y-ny))
		z.LineTo(float32(px-nx), float32(py-ny))
		z.ClosePath()
	}
}

func traceDisk(z *vector.Rasterizer, cx, cy, r float64) {
	for i := 0; i < joinSides; i++ {
		a := -2 * math.Pi * float64(i) / joinSides
		x, y := float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}
