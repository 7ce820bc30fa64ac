package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/AntoineSebert/scheduling-solver/service/messaging"
)

// DefaultBuffer is the queue capacity used when none is configured.
const DefaultBuffer = 128

// Message implements messaging.Message for the in-memory queue.
type Message[T any] struct {
	id      string
	payload T
	queue   *Queue[T]
	mu      sync.Mutex
	done    bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack marks the message as processed successfully.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.done = true
	return nil
}

// Nack records a processing failure. The message moves to the dead-letter
// list instead of being retried: a solver job that fails is reported, never
// re-run, and must not affect its siblings.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.done = true

	m.queue.mu.Lock()
	m.queue.dead = append(m.queue.dead, deadLetter{id: m.id, err: err})
	m.queue.mu.Unlock()
	return nil
}

type deadLetter struct {
	id  string
	err error
}

// Queue is a channel-backed messaging.Queue for independent solver jobs.
type Queue[T any] struct {
	messages chan *Message[T]
	mu       sync.Mutex
	dead     []deadLetter
}

// NewQueue creates an in-memory queue with the given buffer capacity.
func NewQueue[T any](buffer int) *Queue[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Queue[T]{messages: make(chan *Message[T], buffer)}
}

// Publish adds a new item to the queue.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	msg := &Message[T]{
		id:      uuid.New().String(),
		payload: *t,
		queue:   q,
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue, blocking until one is
// available or the context ends.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of queued messages.
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadSize returns the number of dead-lettered messages.
func (q *Queue[T]) DeadSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.dead)
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
