package engine

import "sync"

// FrameBuffer hands frames from the engine to a renderer. It holds at most
// one pending frame: a newer Submit replaces an unread one. Neither side
// ever blocks on the other.
type FrameBuffer struct {
	mu      sync.Mutex
	pending *Frame
	last    *Frame
	ready   chan struct{}
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{ready: make(chan struct{}, 1)}
}

// Submit stores f as the newest frame and wakes the consumer.
func (b *FrameBuffer) Submit(f *Frame) {
	b.mu.Lock()
	b.pending = f
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Next returns the newest unread frame. If none has arrived since the last
// call it returns the previously delivered frame again. ok is false only
// before the first frame.
func (b *FrameBuffer) Next() (f *Frame, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		b.last = b.pending
		b.pending = nil
	}
	return b.last, b.last != nil
}

// Peek returns the newest frame without consuming it.
func (b *FrameBuffer) Peek() *Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		return b.pending
	}
	return b.last
}

// Ready is signalled after Submit. A single signal may cover several frames.
func (b *FrameBuffer) Ready() <-chan struct{} {
	return b.ready
}
