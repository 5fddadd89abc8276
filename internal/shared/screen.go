package shared

import (
	"context"
	"errors"
	"sync"
)

// ErrScreenClosed is returned when a load completes after its screen was torn down.
var ErrScreenClosed = errors.New("screen torn down")

// Dialog is one modal state of a screen. Closed is the zero state.
type Dialog interface {
	DialogKind() string
}

// Closed means no dialog is open.
type Closed struct{}

// DialogKind implements Dialog.
func (Closed) DialogKind() string { return "closed" }

// Screen owns the lifetime of one page controller: a cancellable context for
// its reads and the single dialog slot.
type Screen struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	dialog Dialog
}

// NewScreen derives a screen from parent. Cancelling parent tears the screen down.
func NewScreen(parent context.Context) *Screen {
	ctx, cancel := context.WithCancel(parent)
	return &Screen{ctx: ctx, cancel: cancel, dialog: Closed{}}
}

// Context is the context every read of this screen runs under.
func (s *Screen) Context() context.Context {
	return s.ctx
}

// Alive reports whether the screen has not been torn down.
func (s *Screen) Alive() bool {
	return s.ctx.Err() == nil
}

// Teardown cancels in-flight reads. Results arriving afterwards are discarded.
func (s *Screen) Teardown() {
	s.cancel()
}

// Open replaces whatever dialog is current.
func (s *Screen) Open(d Dialog) {
	if d == nil {
		d = Closed{}
	}
	s.mu.Lock()
	s.dialog = d
	s.mu.Unlock()
}

// Close returns the slot to Closed.
func (s *Screen) Close() {
	s.Open(Closed{})
}

// Dialog returns the current dialog.
func (s *Screen) Dialog() Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

// IsOpen reports whether any dialog other than Closed is current.
func (s *Screen) IsOpen() bool {
	_, closed := s.Dialog().(Closed)
	return !closed
}

// Load runs fn under the screen context and drops its result when the screen
// was torn down before fn returned.
func Load[T any](s *Screen, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !s.Alive() {
		return zero, ErrScreenClosed
	}
	out, err := fn(s.ctx)
	if !s.Alive() {
		return zero, ErrScreenClosed
	}
	if err != nil {
		return zero, err
	}
	return out, nil
}
