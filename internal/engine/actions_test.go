package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{`{"type":"press","x":1,"y":2}`, Press{X: 1, Y: 2}},
		{`{"type":"motion","x":3.5,"y":-1}`, Motion{X: 3.5, Y: -1}},
		{`{"type":"release","x":0,"y":0}`, Release{}},
		{`{"type":"resize","width":640,"height":480}`, Resize{Width: 640, Height: 480}},
		{`{"type":"zoom","delta":0.1}`, Zoom{Delta: 0.1}},
		{`{"type":"panStart"}`, PanStart{}},
		{`{"type":"panDelta","dx":4,"dy":5}`, PanDelta{DX: 4, DY: 5}},
		{`{"type":"panOffset","x":6,"y":7}`, PanOffset{X: 6, Y: 7}},
		{`{"type":"panEnd"}`, PanEnd{}},
		{`{"type":"hover","x":8,"y":9}`, Hover{X: 8, Y: 9}},
		{`{"type":"toolSelect","tool":"objectEraser"}`, ToolSelect{Tool: ToolObjectEraser}},
	}
	for _, tt := range tests {
		t.Run(tt.want.ActionType(), func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeAction() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeAction() = %#v, want %#v", got, tt.want)
			}

			encoded, err := EncodeAction(got)
			if err != nil {
				t.Fatalf("EncodeAction() error = %v", err)
			}
			back, err := DecodeAction(encoded)
			if err != nil || !reflect.DeepEqual(back, tt.want) {
				t.Errorf("DecodeAction(EncodeAction()) = %#v, %v", back, err)
			}
		})
	}
}

func TestDecodeActionErrors(t *testing.T) {
	if _, err := DecodeAction([]byte(`{"type":"teleport"}`)); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown type error = %v, want ErrUnknownAction", err)
	}
	if _, err := DecodeAction([]byte(`not json`)); err == nil {
		t.Error("DecodeAction(garbage) error = nil")
	}
	if _, err := DecodeAction([]byte(`{"type":"press","x":"left"}`)); err == nil {
		t.Error("DecodeAction(bad field) error = nil")
	}
}
