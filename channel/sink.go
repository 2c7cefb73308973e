package channel

import (
	"context"
	"sync"

	"stage-link/domain"
)

// Sink is the receiving end of one live connection. The push router
// calls Consume under a bounded context; the connection loop drains
// frames and writes them to the transport.
type Sink struct {
	frames chan domain.Notification

	closeOnce sync.Once
	closed    chan struct{}
	reason    string
}

func NewSink(bufferSize int) *Sink {
	return &Sink{
		frames: make(chan domain.Notification, bufferSize),
		closed: make(chan struct{}),
	}
}

// Consume queues a notification for the connection. It blocks until the
// buffer accepts it or ctx expires; the router maps an expired ctx to
// dropping this connection.
func (s *Sink) Consume(ctx context.Context, n domain.Notification) error {
	select {
	case s.frames <- n:
		return nil
	case <-s.closed:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the sink dead. Idempotent; the first reason wins and is
// surfaced to the client on transport close.
func (s *Sink) Close(reason string) {
	s.closeOnce.Do(func() {
		s.reason = reason
		close(s.closed)
	})
}

func (s *Sink) Frames() <-chan domain.Notification { return s.frames }
func (s *Sink) Closed() <-chan struct{}            { return s.closed }

// CloseReason is only meaningful once Closed() is readable.
func (s *Sink) CloseReason() string { return s.reason }
