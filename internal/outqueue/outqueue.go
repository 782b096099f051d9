// Package outqueue provides the unbounded FIFO backing an adapter's
// outbound queue.
package outqueue

import (
	"errors"
	"sync"

	"github.com/eapache/queue"
)

// ErrEmpty is returned by Pop once the queue has been drained. It signals
// the end of a drain pass, not a failure.
var ErrEmpty = errors.New("outqueue: empty")

// Queue is an unbounded mutex-guarded FIFO. Producers only append, the
// single consumer only drains, so append order is exactly wire order.
type Queue[T any] struct {
	mu sync.Mutex
	q  *queue.Queue
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{q: queue.New()}
}

// Push appends v. The queue is unbounded, so Push never blocks.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.q.Add(v)
}

// Pop removes and returns the oldest element, or ErrEmpty.
func (q *Queue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if q.q.Length() == 0 {
		return zero, ErrEmpty
	}
	return q.q.Remove().(T), nil
}

// Len reports the number of queued elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.q.Length()
}
