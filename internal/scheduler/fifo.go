package scheduler

import (
	"errors"
	"sync"
)

var ErrQueueClosed = errors.New("queue is closed")

const (
	// Initial backing capacity; the queue grows past it as needed.
	defaultInitialCapacity = 64
	// Compact the backing slice once this many popped slots pile up at the front.
	compactThreshold = 1024
)

// FIFOQueue is an unbounded first-in first-out queue shared by many
// producers and consumers.
//
// Access is serialized by a mutex; consumers block on a condition variable
// while the queue is empty. Every pushed item is handed to exactly one Dequeue
// call. Once closed the queue rejects pushes but still hands out what it
// holds, so consumers drain it before Dequeue reports exhaustion.
type FIFOQueue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []T
	head     int
	closed   bool
}

// NewFIFOQueue creates an empty, open queue.
func NewFIFOQueue[T any]() *FIFOQueue[T] {
	q := &FIFOQueue[T]{
		items: make([]T, 0, defaultInitialCapacity),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item to the tail and wakes one waiting consumer.
// It never blocks on capacity. Returns ErrQueueClosed once Close or
// Discard has been called.
func (q *FIFOQueue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return nil
}

// Dequeue removes and returns the head of the queue, blocking while the
// queue is empty and open. The second return value is false only when the
// queue is closed and fully drained.
func (q *FIFOQueue[T]) Dequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size() == 0 && !q.closed {
		q.notEmpty.Wait()
	}

	var zero T
	if q.size() == 0 {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	q.compact()

	return item, true
}

// Close stops the queue from accepting new items and wakes every consumer.
// Items already queued stay available to Dequeue. Calling Close more than
// once is harmless.
func (q *FIFOQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
}

// Discard closes the queue and removes every item still waiting in it,
// returning them in FIFO order so the caller can fail them.
func (q *FIFOQueue[T]) Discard() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true

	var dropped []T
	if n := q.size(); n > 0 {
		dropped = make([]T, n)
		copy(dropped, q.items[q.head:])
	}
	q.items = nil
	q.head = 0

	q.notEmpty.Broadcast()
	return dropped
}

// Len returns the number of items waiting in the queue.
func (q *FIFOQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size()
}

// IsClosed reports whether Close or Discard has been called.
func (q *FIFOQueue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// size must be called with mu held.
func (q *FIFOQueue[T]) size() int {
	return len(q.items) - q.head
}

// compact must be called with mu held.
func (q *FIFOQueue[T]) compact() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}

	if q.head >= compactThreshold && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}
