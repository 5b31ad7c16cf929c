//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
	"github.com/inkboard/inkboard/internal/typeid"
)

const defaultHitTolerance = 4

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultOptions())

	// Create the engine API object
	inkEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	inkEngine.Set("dispatch", js.FuncOf(dispatch))
	inkEngine.Set("setTool", js.FuncOf(setTool))
	inkEngine.Set("loadStrokes", js.FuncOf(loadStrokes))
	inkEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	inkEngine.Set("removeNear", js.FuncOf(removeNear))

	// --- Queries (frontend ← engine) ---
	inkEngine.Set("render", js.FuncOf(render))
	inkEngine.Set("hitTest", js.FuncOf(hitTest))
	inkEngine.Set("getViewport", js.FuncOf(getViewport))
	inkEngine.Set("getStrokes", js.FuncOf(getStrokes))
	inkEngine.Set("getTool", js.FuncOf(getTool))

	// Register on global scope
	js.Global().Set("inkEngine", inkEngine)

	// Signal that WASM is ready
	js.Global().Set("inkWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

// dispatch takes an action as JSON, e.g. {"type":"press","x":10,"y":20}.
func dispatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing action JSON"})
	}
	a, err := engine.DecodeAction([]byte(args[0].String()))
	if err != nil {
		return errorResult(err)
	}
	if err := eng.Dispatch(a); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing tool"})
	}
	if err := eng.Dispatch(engine.ToolSelect{Tool: engine.Tool(args[0].String())}); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// loadStrokes takes a JSON array of document-space strokes.
func loadStrokes(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing strokes JSON"})
	}
	var strokes []*document.Stroke
	if err := json.Unmarshal([]byte(args[0].String()), &strokes); err != nil {
		return errorResult(err)
	}
	for _, s := range strokes {
		if s.ID == "" {
			s.ID = typeid.NewStrokeID()
			continue
		}
		if err := typeid.Validate(s.ID, typeid.PrefixStroke); err != nil {
			return errorResult(err)
		}
	}
	if err := eng.LoadStrokes(strokes); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	if err := eng.LoadStrokes(document.NewSampleStrokes()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func removeNear(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(0)
	}
	return js.ValueOf(eng.RemoveNear(args[0].Float(), args[1].Float(), args[2].Float()))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	s, err := eng.Render().JSON()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(s)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	tol := float64(defaultHitTolerance)
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		tol = args[2].Float()
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float(), tol))
}

func getViewport(this js.Value, args []js.Value) interface{} {
	return marshal(eng.Viewport())
}

func getStrokes(this js.Value, args []js.Value) interface{} {
	return marshal(eng.Document().All())
}

func getTool(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(eng.Tool()))
}

func marshal(v any) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}
