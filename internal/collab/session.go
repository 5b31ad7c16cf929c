package collab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
)

var ErrSessionClosed = errors.New("session closed")

const actionBacklog = 256

// ActionError reports an action the engine refused.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string { return fmt.Sprintf("%s: %v", e.Action, e.Err) }
func (e *ActionError) Unwrap() error { return e.Err }

// Session owns one private engine. Actions are applied one at a time by
// Run, in the order they were submitted.
type Session struct {
	ID string

	eng     *engine.Engine
	frames  *engine.FrameBuffer
	actions chan engine.Action
	errs    chan error
	done    chan struct{}
	welcome WelcomePayload
}

// NewSession creates a session whose document starts with seed.
func NewSession(id string, opts engine.Options, seed []*document.Stroke) (*Session, error) {
	eng := engine.NewEngine(opts)
	frames := engine.NewFrameBuffer()
	eng.AttachFrameBuffer(frames)
	if err := eng.LoadStrokes(seed); err != nil {
		return nil, fmt.Errorf("seed session %s: %w", id, err)
	}

	return &Session{
		ID:      id,
		eng:     eng,
		frames:  frames,
		actions: make(chan engine.Action, actionBacklog),
		errs:    make(chan error, 16),
		done:    make(chan struct{}),
		welcome: WelcomePayload{
			SessionID: id,
			Tool:      eng.Tool(),
			Viewport:  eng.Viewport(),
			Strokes:   eng.Document().Len(),
		},
	}, nil
}

// Run applies submitted actions until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case a := <-s.actions:
			s.apply(a)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) apply(a engine.Action) {
	err := s.eng.Dispatch(a)
	if err == nil {
		return
	}
	slog.Warn("action rejected", "session", s.ID, "action", a.ActionType(), "error", err)
	select {
	case s.errs <- &ActionError{Action: a.ActionType(), Err: err}:
	default:
		slog.Warn("session error buffer full, dropping error", "session", s.ID)
	}
}

// Submit queues an action. It blocks while the backlog is full.
func (s *Session) Submit(ctx context.Context, a engine.Action) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.actions <- a:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frames is the latest-wins buffer the engine renders into.
func (s *Session) Frames() *engine.FrameBuffer { return s.frames }

// Errors delivers rejected actions.
func (s *Session) Errors() <-chan error { return s.errs }

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

// LatestFrame returns the newest rendered frame without consuming it.
func (s *Session) LatestFrame() (*engine.Frame, bool) {
	f := s.frames.Peek()
	return f, f != nil
}

// Welcome describes the session as it was created.
func (s *Session) Welcome() WelcomePayload { return s.welcome }
