package wsbridge

import "github.com/hostbridge/wsbridge/internal/outqueue"

// Queue is the unbounded outbound FIFO shared between Send callers and the
// single Wait consumer. Producers only append and the consumer only drains,
// so append order is exactly wire order. It is exported because the
// environment registry hands it out alongside Event.
type Queue struct {
	q *outqueue.Queue[Message]
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{q: outqueue.New[Message]()}
}

// Push appends msg. The queue is unbounded, so Push never blocks.
func (q *Queue) Push(msg Message) {
	q.q.Push(msg)
}

// Pop removes and returns the oldest message, or ErrQueueEmpty once the
// queue has been drained.
func (q *Queue) Pop() (Message, error) {
	return q.q.Pop()
}

// Len reports the number of queued messages.
func (q *Queue) Len() int {
	return q.q.Len()
}
