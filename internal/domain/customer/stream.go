package customer

import (
	"context"
	"errors"
	"sync"

	"github.com/crm/backend/internal/domain/shared"
)

// Stream is a lazy, finite, non-restartable sequence of customers.
// Items are produced by a goroutine feeding the channel; the producer
// stops as soon as the consumer closes the stream or its context ends.
type Stream struct {
	ch <-chan Customer

	mu      sync.Mutex
	cancels []context.CancelFunc
	closed  bool
	err     error
}

// Produce starts fn on its own goroutine and returns a stream of the
// customers it emits. fn must return once emit reports false; its error,
// if any, is available from Err after the channel is drained.
func Produce(ctx context.Context, fn func(ctx context.Context, emit func(Customer) bool) error) *Stream {
	ch := make(chan Customer)
	s := &Stream{ch: ch}

	go func() {
		defer close(ch)
		defer s.Close()
		err := fn(ctx, func(c Customer) bool {
			select {
			case ch <- c:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			s.setErr(err)
		}
	}()

	return s
}

// Empty returns an already-exhausted stream
func Empty() *Stream {
	ch := make(chan Customer)
	close(ch)
	return &Stream{ch: ch}
}

// Of returns a stream over the given customers, mainly used in tests
func Of(customers ...Customer) *Stream {
	ch := make(chan Customer, len(customers))
	for _, c := range customers {
		ch <- c
	}
	close(ch)
	return &Stream{ch: ch}
}

// Chan exposes the underlying channel; it is closed when the sequence ends
func (s *Stream) Chan() <-chan Customer {
	return s.ch
}

// BindCancel arranges for cancel to run when the stream ends or is closed,
// releasing whatever deadline the caller attached to the producer's context
func (s *Stream) BindCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancels = append(s.cancels, cancel)
	s.mu.Unlock()
}

// Close stops the producer. Items already buffered may still be received.
func (s *Stream) Close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.closed = true
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Err reports the failure that terminated the stream, if any.
// Only meaningful after the channel has been closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Collect drains the stream into a slice, honoring ctx cancellation
func (s *Stream) Collect(ctx context.Context) ([]Customer, error) {
	defer s.Close()
	var out []Customer
	for {
		select {
		case c, ok := <-s.ch:
			if !ok {
				return out, s.Err()
			}
			out = append(out, c)
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
}

func (s *Stream) setErr(err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = shared.ErrTimeout
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
