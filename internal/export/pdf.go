package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
)

// WritePDF writes f as a single-page PDF. One screen pixel maps to scale
// points.
func WritePDF(w io.Writer, f *engine.Frame, scale float64) error {
	pw, ph, err := pixelSize(f, scale)
	if err != nil {
		return err
	}

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(pw), Ht: float64(ph)},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	for _, cmd := range f.Commands {
		if cmd.Op != engine.OpStroke || len(cmd.Points) == 0 {
			continue
		}
		c, err := document.ParseColor(cmd.Stroke)
		if err != nil {
			return fmt.Errorf("stroke %s: %w", cmd.ObjectID, err)
		}
		lw := cmd.StrokeWidth * scale
		p.SetAlpha(cmd.Opacity, "Normal")

		if len(cmd.Points) == 1 {
			p.SetFillColor(int(c.R), int(c.G), int(c.B))
			p.Circle(cmd.Points[0][0]*scale, cmd.Points[0][1]*scale, lw/2, "F")
			continue
		}
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetLineWidth(lw)
		p.MoveTo(cmd.Points[0][0]*scale, cmd.Points[0][1]*scale)
		for _, pt := range cmd.Points[1:] {
			p.LineTo(pt[0]*scale, pt[1]*scale)
		}
		p.DrawPath("D")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
