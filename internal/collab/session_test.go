package collab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
)

func startSession(t *testing.T, seed []*document.Stroke) *Session {
	t.Helper()
	s, err := NewSession("sess_test", engine.DefaultOptions(), seed)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	go s.Run(ctx)
	return s
}

func waitFrame(t *testing.T, s *Session, cond func(*engine.Frame) bool) *engine.Frame {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-s.Frames().Ready():
			if f, ok := s.Frames().Next(); ok && cond(f) {
				return f
			}
		case <-deadline:
			t.Fatal("timed out waiting for frame")
			return nil
		}
	}
}

func TestSessionSeedRendersInitialFrame(t *testing.T) {
	s := startSession(t, document.NewSampleStrokes())
	if s.Welcome().Strokes != 3 {
		t.Errorf("Welcome().Strokes = %d, want 3", s.Welcome().Strokes)
	}
	if _, ok := s.LatestFrame(); !ok {
		t.Error("no frame after seeding")
	}
}

func TestSessionAppliesActionsInOrder(t *testing.T) {
	s := startSession(t, nil)
	ctx := context.Background()
	for _, a := range []engine.Action{
		engine.Resize{Width: 100, Height: 100},
		engine.Press{X: 10, Y: 10},
		engine.Motion{X: 20, Y: 20},
		engine.Release{X: 30, Y: 30},
	} {
		if err := s.Submit(ctx, a); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	f := waitFrame(t, s, func(f *engine.Frame) bool { return len(f.Commands) == 1 && f.Width == 100 })
	if n := len(f.Commands[0].Points); n != 3 {
		t.Errorf("stroke has %d points, want 3", n)
	}
}

func TestSessionReportsRejectedActions(t *testing.T) {
	s := startSession(t, nil)
	if err := s.Submit(context.Background(), engine.Release{X: 1, Y: 1}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case err := <-s.Errors():
		var ae *ActionError
		if !errors.As(err, &ae) || ae.Action != engine.ActionRelease {
			t.Errorf("error = %v, want ActionError for release", err)
		}
		if !errors.Is(err, engine.ErrNoActiveGesture) {
			t.Errorf("error = %v, want ErrNoActiveGesture", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported")
	}
}

func TestSessionSubmitAfterStop(t *testing.T) {
	s, err := NewSession("sess_stop", engine.DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	cancel()
	<-s.Done()

	if err := s.Submit(context.Background(), engine.Hover{}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Submit() error = %v, want ErrSessionClosed", err)
	}
}
