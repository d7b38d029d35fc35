package queue

import (
	"context"
	"sync"

	"resume-analyzer/internal/shared/telemetry"
)

// Processor handles one dequeued message.
type Processor func(ctx context.Context, msg Message)

// MemoryClient is an in-process queue backed by a bounded channel. The API
// process publishes analysis jobs to it and a worker pool consumes them.
// Messages cross the channel as JSON, the same payload shape an external
// broker would carry.
type MemoryClient struct {
	ch     chan []byte
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewMemoryClient creates a queue with the given buffer size.
func NewMemoryClient(size int) *MemoryClient {
	if size <= 0 {
		size = 64
	}
	return &MemoryClient{ch: make(chan []byte, size)}
}

// Start launches workers that invoke process for each message. Workers exit
// when the context is canceled or the queue is drained. Payloads that fail
// to decode are logged and dropped.
func (m *MemoryClient) Start(ctx context.Context, workers int, process Processor) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go func(worker int) {
			defer m.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case payload, ok := <-m.ch:
					if !ok {
						return
					}
					msg, err := DecodeMessage(payload)
					if err != nil {
						telemetry.Error("queue.decode", map[string]any{
							"worker": worker,
							"error":  err.Error(),
						})
						continue
					}
					telemetry.Debug("queue.dequeue", map[string]any{
						"worker":      worker,
						"analysis_id": msg.AnalysisID,
						"request_id":  msg.RequestID,
					})
					process(ctx, msg)
				}
			}
		}(i)
	}
}

// Send enqueues a message without blocking; a full buffer fails fast.
func (m *MemoryClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrQueueClosed
	}
	select {
	case m.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drain stops accepting new messages and waits for workers to finish the backlog.
func (m *MemoryClient) Drain() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.ch)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

var _ Client = (*MemoryClient)(nil)
