package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkboard/inkboard/internal/engine"
)

const script = `# draw a line, then cut it in half
{"type":"resize","width":100,"height":100}
{"type":"press","x":10,"y":50}
{"type":"motion","x":50,"y":50}
{"type":"release","x":90,"y":50}

{"type":"toolSelect","tool":"eraser"}
{"type":"press","x":50,"y":40}
{"type":"release","x":50,"y":60}
`

func TestReplay(t *testing.T) {
	eng := engine.NewEngine(engine.DefaultOptions())
	n, err := replay(strings.NewReader(script), eng)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 7 {
		t.Errorf("replay() = %d actions, want 7", n)
	}
	if got := eng.Document().Len(); got != 2 {
		t.Errorf("document has %d strokes, want 2", got)
	}
}

func TestReplayStopsOnError(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantN   int
		wantErr error
	}{
		{"unknown action", `{"type":"hover","x":1,"y":1}` + "\n" + `{"type":"jump"}`, 1, engine.ErrUnknownAction},
		{"rejected action", `{"type":"release","x":1,"y":1}`, 0, engine.ErrNoActiveGesture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := replay(strings.NewReader(tt.script), engine.NewEngine(engine.DefaultOptions()))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("replay() error = %v, want %v", err, tt.wantErr)
			}
			if n != tt.wantN {
				t.Errorf("replay() = %d, want %d", n, tt.wantN)
			}
		})
	}
}
