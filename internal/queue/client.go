package queue

import (
	"context"
	"errors"
)

var (
	// ErrQueueFull is returned when the bounded buffer has no room.
	ErrQueueFull = errors.New("queue full")
	// ErrQueueClosed is returned for sends after Drain.
	ErrQueueClosed = errors.New("queue closed")
)

// Client publishes analysis jobs for the worker pool to pick up. Send must
// not block; callers surface ErrQueueFull as backpressure to the API client.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
