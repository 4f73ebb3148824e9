// Package pager carries continuous swipe progress from a horizontal pager to
// the chrome that follows it, and drives the pager from discrete navigation.
//
// Position is a single-writer, many-reader cell holding the fractional page
// index. It is updated once per scroll frame, so it bypasses the virtual
// navigator, which only handles discrete transitions.
package pager

import (
	"context"
	"errors"

	"go.uber.org/atomic"

	"github.com/navcore-dev/navcore/pkg/navcore/observer"
)

var (
	// ErrWriterHeld is returned by Acquire while another writer holds the position.
	ErrWriterHeld = errors.New("pager: position already has a writer")
	// ErrWriterReleased is returned by Writer.Set after Release.
	ErrWriterReleased = errors.New("pager: writer released")
)

// Position is the shared swipe progress of one pager.
// Values are not range checked; overscroll may leave [0, pages-1] briefly.
type Position struct {
	value   *atomic.Float64
	held    *atomic.Bool
	readers observer.Registry[float64]
}

// NewPosition creates a Position starting at initial.
func NewPosition(initial float64) *Position {
	return &Position{
		value: atomic.NewFloat64(initial),
		held:  atomic.NewBool(false),
	}
}

// Value returns the latest progress.
func (p *Position) Value() float64 {
	return p.value.Load()
}

// Subscribe registers fn to receive every write.
func (p *Position) Subscribe(fn func(float64)) (unsubscribe func()) {
	return p.readers.Subscribe(fn)
}

// Readers returns the number of subscribed readers.
func (p *Position) Readers() int {
	return p.readers.Len()
}

// Acquire claims the position for writing.
func (p *Position) Acquire() (*Writer, error) {
	if !p.held.CompareAndSwap(false, true) {
		return nil, ErrWriterHeld
	}
	return &Writer{position: p, released: atomic.NewBool(false)}, nil
}

// Writer is the single writer of a Position.
type Writer struct {
	position *Position
	released *atomic.Bool
}

// Set stores v and notifies readers.
func (w *Writer) Set(v float64) error {
	if w.released.Load() {
		return ErrWriterReleased
	}
	w.position.value.Store(v)
	w.position.readers.Notify(v)
	return nil
}

// Release gives up the position so another pager can acquire it.
func (w *Writer) Release() {
	if w.released.CompareAndSwap(false, true) {
		w.position.held.Store(false)
	}
}

type positionKey struct{}

// WithPosition returns a context carrying p down a screen tree.
func WithPosition(ctx context.Context, p *Position) context.Context {
	return context.WithValue(ctx, positionKey{}, p)
}

// FromContext returns the Position stored by WithPosition.
func FromContext(ctx context.Context) (*Position, bool) {
	p, ok := ctx.Value(positionKey{}).(*Position)
	return p, ok && p != nil
}
