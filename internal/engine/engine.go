package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ctessum/geom"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/geometry"
)

var (
	ErrNoActiveGesture   = errors.New("no gesture in progress")
	ErrGestureInProgress = errors.New("gesture already in progress")
	ErrUnknownTool       = errors.New("unknown tool")
)

// Options holds the drawing style. Widths and radii are screen pixels.
type Options struct {
	PenColor     document.Color
	PenAlpha     float64
	PenWidth     float64
	EraserRadius float64
}

func DefaultOptions() Options {
	return Options{
		PenColor:     document.DefaultInk,
		PenAlpha:     1,
		PenWidth:     2,
		EraserRadius: 8,
	}
}

// Engine owns one document and its view and applies actions to them one at
// a time. It is not safe for concurrent use.
type Engine struct {
	viewport Viewport
	doc      *document.SpatialDocument
	opts     Options
	tool     Tool

	// Gesture state
	current   *document.Stroke
	panOrigin *geom.Point // previous pointer position during a hand drag
	panActive bool        // between PanStart and PanEnd
	panOffset geom.Point  // last PanOffset seen in this pan gesture
	pointer   geom.Point

	seq    uint64
	frames *FrameBuffer
}

// NewEngine creates an engine with an empty document, an identity viewport
// and the pen selected.
func NewEngine(opts Options) *Engine {
	return &Engine{
		viewport: NewViewport(),
		doc:      document.NewSpatialDocument(),
		opts:     opts,
		tool:     ToolPen,
	}
}

// AttachFrameBuffer makes Dispatch submit every rendered frame to b.
func (e *Engine) AttachFrameBuffer(b *FrameBuffer) {
	e.frames = b
}

func (e *Engine) Viewport() Viewport                  { return e.viewport }
func (e *Engine) Document() *document.SpatialDocument { return e.doc }
func (e *Engine) Tool() Tool                          { return e.tool }
func (e *Engine) Options() Options                    { return e.opts }

// InProgress returns the stroke being drawn, in screen space, or nil.
func (e *Engine) InProgress() *document.Stroke { return e.current }

func (e *Engine) gestureActive() bool {
	return e.current != nil || e.panOrigin != nil
}

// Dispatch applies one action and, on success, renders a frame. An action
// that fails leaves the engine unchanged.
func (e *Engine) Dispatch(a Action) error {
	if err := e.apply(a); err != nil {
		return fmt.Errorf("dispatch %s: %w", a.ActionType(), err)
	}
	f := e.Render()
	if e.frames != nil {
		e.frames.Submit(f)
	}
	return nil
}

func (e *Engine) apply(a Action) error {
	switch a := a.(type) {
	case Press:
		return e.press(a.X, a.Y)
	case Motion:
		return e.motion(a.X, a.Y)
	case Release:
		return e.release(a.X, a.Y)
	case Resize:
		e.viewport.Resize(a.Width, a.Height)
	case Zoom:
		if !e.viewport.Zoom(a.Delta, e.pointer) {
			Logger().Debug("zoom rejected", "delta", a.Delta)
		}
	case PanStart:
		e.panActive = true
		e.panOffset = geom.Point{}
	case PanDelta:
		e.viewport.Pan(a.DX, a.DY)
	case PanOffset:
		if !e.panActive {
			e.viewport.Pan(a.X, a.Y)
			break
		}
		e.viewport.Pan(a.X-e.panOffset.X, a.Y-e.panOffset.Y)
		e.panOffset = geom.Point{X: a.X, Y: a.Y}
	case PanEnd:
		e.panActive = false
		e.panOffset = geom.Point{}
	case Hover:
		e.pointer = geom.Point{X: a.X, Y: a.Y}
	case ToolSelect:
		if !a.Tool.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownTool, a.Tool)
		}
		if e.gestureActive() {
			Logger().Warn("tool change ignored during gesture", "tool", a.Tool, "active", e.tool)
			break
		}
		e.tool = a.Tool
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	return nil
}

func (e *Engine) press(x, y float64) error {
	if e.gestureActive() {
		return ErrGestureInProgress
	}
	switch e.tool {
	case ToolPen:
		e.current = document.NewStroke(e.opts.PenColor, e.opts.PenAlpha, e.opts.PenWidth)
		e.current.Append(x, y)
	case ToolEraser, ToolObjectEraser:
		e.current = document.NewStroke(document.EraserColor, 1, 0)
		e.current.Append(x, y)
	case ToolHand:
		e.panOrigin = &geom.Point{X: x, Y: y}
	}
	e.pointer = geom.Point{X: x, Y: y}
	return nil
}

func (e *Engine) motion(x, y float64) error {
	switch {
	case e.current != nil:
		e.current.Append(x, y)
	case e.panOrigin != nil:
		e.dragTo(x, y)
	default:
		return ErrNoActiveGesture
	}
	e.pointer = geom.Point{X: x, Y: y}
	return nil
}

func (e *Engine) release(x, y float64) error {
	switch {
	case e.current != nil:
		e.current.Append(x, y)
		e.commit(e.current.ToDocumentSpace(e.viewport))
		e.current = nil
	case e.panOrigin != nil:
		e.dragTo(x, y)
		e.panOrigin = nil
	default:
		return ErrNoActiveGesture
	}
	e.pointer = geom.Point{X: x, Y: y}
	return nil
}

// dragTo pans so the content follows the pointer.
func (e *Engine) dragTo(x, y float64) {
	e.viewport.Pan(e.panOrigin.X-x, e.panOrigin.Y-y)
	e.panOrigin = &geom.Point{X: x, Y: y}
}

// commit applies a finished stroke, already in document space.
func (e *Engine) commit(s *document.Stroke) {
	log := Logger()
	switch e.tool {
	case ToolPen:
		if s.Collapsed() {
			log.Debug("pen click discarded", "strokeId", s.ID)
			return
		}
		s.Width = e.viewport.PixelsToDocument(e.opts.PenWidth)
		if err := e.doc.Insert(s); err != nil {
			log.Warn("stroke not inserted", "strokeId", s.ID, "error", err)
			return
		}
		log.Debug("stroke committed", "strokeId", s.ID, "points", len(s.Points), "length", s.Length())
	case ToolEraser:
		res := SplitErase(e.doc, s, e.viewport.PixelsToDocument(e.opts.EraserRadius))
		log.Debug("split erase", "erased", len(res.Erased), "created", len(res.Created))
	case ToolObjectEraser:
		erased := ObjectErase(e.doc, s)
		log.Debug("object erase", "erased", len(erased))
	}
}

// Render builds a frame of the strokes in view, in id order, followed by
// the stroke being drawn.
func (e *Engine) Render() *Frame {
	strokes := e.doc.QueryRange(e.viewport.VisibleDocumentRegion())
	sort.Slice(strokes, func(i, j int) bool { return strokes[i].ID < strokes[j].ID })

	cmds := make([]DrawCommand, 0, len(strokes)+1)
	for _, s := range strokes {
		cmds = append(cmds, compileStroke(s, e.viewport))
	}
	if e.current != nil {
		cmds = append(cmds, compileInProgress(e.current, e.tool, e.opts.EraserRadius))
	}

	e.seq++
	return &Frame{
		Seq:       e.seq,
		Width:     e.viewport.Width,
		Height:    e.viewport.Height,
		Transform: e.viewport.Transform.ToSlice(),
		Commands:  cmds,
	}
}

// Insert adds a document-space stroke directly, bypassing gestures.
func (e *Engine) Insert(s *document.Stroke) error {
	return e.doc.Insert(s)
}

// LoadStrokes inserts a copy of every stroke and renders once.
func (e *Engine) LoadStrokes(strokes []*document.Stroke) error {
	for _, s := range strokes {
		if err := e.doc.Insert(s.Clone()); err != nil {
			return fmt.Errorf("load stroke %s: %w", s.ID, err)
		}
	}
	if e.frames != nil {
		e.frames.Submit(e.Render())
	}
	return nil
}

// HitTest returns the id of the topmost stroke passing within tolerance
// screen pixels of (x, y), or "".
func (e *Engine) HitTest(x, y, tolerance float64) string {
	p := e.viewport.ToDocument(geom.Point{X: x, Y: y})
	r := e.viewport.PixelsToDocument(tolerance)

	strokes := e.doc.QueryRange(geometry.Grow(geom.NewBoundsPoint(p), r))
	sort.Slice(strokes, func(i, j int) bool { return strokes[i].ID > strokes[j].ID })
	for _, s := range strokes {
		for _, sg := range s.Segments() {
			if sg.DistanceToPoint(p) <= r {
				return s.ID
			}
		}
	}
	return ""
}

// RemoveNear deletes strokes with a point within radius screen pixels of
// (x, y) and renders. It returns the number removed.
func (e *Engine) RemoveNear(x, y, radius float64) int {
	p := e.viewport.ToDocument(geom.Point{X: x, Y: y})
	removed := RemoveNear(e.doc, p, e.viewport.PixelsToDocument(radius))
	if len(removed) > 0 && e.frames != nil {
		e.frames.Submit(e.Render())
	}
	return len(removed)
}
