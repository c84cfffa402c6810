// Package queue runs background tasks either on asynq (Redis) or inline in
// the calling goroutine.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is a background job with a stable type name and an encoded payload.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. Handlers must be idempotent since adapters may retry.
type Handler func(ctx context.Context, task Task) error

// Options tune a single enqueue. Zero values mean unspecified.
type Options struct {
	Queue     string
	ProcessIn time.Duration
	MaxRetry  int
	UniqueTTL time.Duration
}

// Queue enqueues tasks and dispatches them to registered handlers.
type Queue interface {
	Register(taskType string, h Handler)
	Enqueue(ctx context.Context, t Task, opts ...Options) (id string, err error)
	// Run processes tasks until ctx is canceled.
	Run(ctx context.Context) error
	Close() error
}

// ErrNoHandler is returned when a task type has no registered handler.
var ErrNoHandler = errors.New("queue: no handler registered")

// Inline runs each task synchronously inside Enqueue. It backs single-node
// deployments without Redis and tests.
type Inline struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

var _ Queue = (*Inline)(nil)

// NewInline creates an Inline queue.
func NewInline() *Inline {
	return &Inline{handlers: make(map[string]Handler)}
}

func (q *Inline) Register(taskType string, h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[taskType] = h
}

// Enqueue runs the task's handler before returning and reports its error.
func (q *Inline) Enqueue(ctx context.Context, t Task, _ ...Options) (string, error) {
	if t.Type == "" {
		return "", errors.New("queue: task type is required")
	}
	q.mu.RLock()
	h, ok := q.handlers[t.Type]
	q.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoHandler, t.Type)
	}
	id := uuid.NewString()
	if err := h(ctx, t); err != nil {
		return id, fmt.Errorf("task %s: %w", t.Type, err)
	}
	return id, nil
}

// Run blocks until ctx is canceled; Inline has nothing to poll.
func (q *Inline) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (q *Inline) Close() error { return nil }
