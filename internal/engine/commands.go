package engine

import (
	"encoding/json"

	"github.com/inkboard/inkboard/internal/document"
)

// Draw command ops.
const (
	OpStroke = "stroke"
	OpEraser = "eraser"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// Points are in screen pixels.
type DrawCommand struct {
	Op          string       `json:"op"`                 // "stroke" or "eraser"
	ObjectID    string       `json:"objectId,omitempty"` // For hit correlation
	Points      [][2]float64 `json:"points"`
	Stroke      string       `json:"stroke"` // #rrggbb
	StrokeWidth float64      `json:"strokeWidth"`
	Opacity     float64      `json:"opacity"`
}

// Frame is one finished render pass. It is never modified after it has been
// handed to a FrameBuffer.
type Frame struct {
	Seq       uint64        `json:"seq"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Transform []float64     `json:"transform"` // document → screen
	Commands  []DrawCommand `json:"commands"`
}

// JSON serializes the frame.
func (f *Frame) JSON() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// compileStroke projects a committed stroke onto the screen.
func compileStroke(s *document.Stroke, vp Viewport) DrawCommand {
	sx, sy := vp.Scale()
	identity := vp.Transform.IsIdentity()
	pts := make([][2]float64, len(s.Points))
	for i, p := range s.Points {
		if identity {
			pts[i] = [2]float64{p.X, p.Y}
			continue
		}
		x, y := vp.Transform.TransformPoint(p.X, p.Y)
		pts[i] = [2]float64{x, y}
	}
	return DrawCommand{
		Op:          OpStroke,
		ObjectID:    s.ID,
		Points:      pts,
		Stroke:      s.Color.Hex(),
		StrokeWidth: s.Width * (sx + sy) / 2,
		Opacity:     s.Alpha,
	}
}

// compileInProgress emits the stroke being drawn, whose points are already
// in screen space.
func compileInProgress(s *document.Stroke, tool Tool, eraserRadius float64) DrawCommand {
	pts := make([][2]float64, len(s.Points))
	for i, p := range s.Points {
		pts[i] = [2]float64{p.X, p.Y}
	}
	cmd := DrawCommand{
		Op:          OpStroke,
		ObjectID:    s.ID,
		Points:      pts,
		Stroke:      s.Color.Hex(),
		StrokeWidth: s.Width,
		Opacity:     s.Alpha,
	}
	if tool == ToolEraser || tool == ToolObjectEraser {
		cmd.Op = OpEraser
		cmd.StrokeWidth = 2 * eraserRadius
		if tool == ToolObjectEraser {
			cmd.StrokeWidth = 1
		}
	}
	return cmd
}
