package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action type")

// Tool selects how pointer gestures are interpreted.
type Tool string

const (
	ToolPen          Tool = "pen"
	ToolEraser       Tool = "eraser"
	ToolObjectEraser Tool = "objectEraser"
	ToolHand         Tool = "hand"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolPen, ToolEraser, ToolObjectEraser, ToolHand:
		return true
	}
	return false
}

// Action type names used on the wire.
const (
	ActionPress      = "press"
	ActionMotion     = "motion"
	ActionRelease    = "release"
	ActionResize     = "resize"
	ActionZoom       = "zoom"
	ActionPanStart   = "panStart"
	ActionPanDelta   = "panDelta"
	ActionPanOffset  = "panOffset"
	ActionPanEnd     = "panEnd"
	ActionHover      = "hover"
	ActionToolSelect = "toolSelect"
)

// Action is one input event for Engine.Dispatch.
type Action interface {
	ActionType() string
}

// Press, Motion and Release carry screen coordinates.
type Press struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Motion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Release struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Resize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Zoom scales the view by 1+Delta about the last pointer position.
type Zoom struct {
	Delta float64 `json:"delta"`
}

type PanStart struct{}

// PanDelta pans by the movement since the previous pan event.
type PanDelta struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// PanOffset carries the total offset since PanStart. The engine pans by the
// difference to the previous offset.
type PanOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PanEnd struct{}

// Hover reports pointer movement with no button held.
type Hover struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ToolSelect struct {
	Tool Tool `json:"tool"`
}

func (Press) ActionType() string      { return ActionPress }
func (Motion) ActionType() string     { return ActionMotion }
func (Release) ActionType() string    { return ActionRelease }
func (Resize) ActionType() string     { return ActionResize }
func (Zoom) ActionType() string       { return ActionZoom }
func (PanStart) ActionType() string   { return ActionPanStart }
func (PanDelta) ActionType() string   { return ActionPanDelta }
func (PanOffset) ActionType() string  { return ActionPanOffset }
func (PanEnd) ActionType() string     { return ActionPanEnd }
func (Hover) ActionType() string      { return ActionHover }
func (ToolSelect) ActionType() string { return ActionToolSelect }

// DecodeAction parses a JSON action such as {"type":"press","x":1,"y":2}.
func DecodeAction(data []byte) (Action, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	var a Action
	switch env.Type {
	case ActionPress:
		a = &Press{}
	case ActionMotion:
		a = &Motion{}
	case ActionRelease:
		a = &Release{}
	case ActionResize:
		a = &Resize{}
	case ActionZoom:
		a = &Zoom{}
	case ActionPanStart:
		return PanStart{}, nil
	case ActionPanDelta:
		a = &PanDelta{}
	case ActionPanOffset:
		a = &PanOffset{}
	case ActionPanEnd:
		return PanEnd{}, nil
	case ActionHover:
		a = &Hover{}
	case ActionToolSelect:
		a = &ToolSelect{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return deref(a), nil
}

// deref turns the pointer used for unmarshalling back into a value action.
func deref(a Action) Action {
	switch v := a.(type) {
	case *Press:
		return *v
	case *Motion:
		return *v
	case *Release:
		return *v
	case *Resize:
		return *v
	case *Zoom:
		return *v
	case *PanDelta:
		return *v
	case *PanOffset:
		return *v
	case *Hover:
		return *v
	case *ToolSelect:
		return *v
	}
	return a
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(a.ActionType())
	return json.Marshal(fields)
}
