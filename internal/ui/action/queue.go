// Package action provides the ordered queue connecting background producers
// to the UI loop. Producers only push; the UI goroutine is the sole consumer.
package action

import "sync"

// Queue is an unbounded multi-producer FIFO. Pushes from one producer are
// consumed in push order; no ordering holds across producers.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	wake  chan struct{}
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{wake: make(chan struct{}, 1)}
}

// Push appends items and signals the consumer. Never blocks.
func (q *Queue[T]) Push(items ...T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Drain removes and returns everything currently queued. Items pushed while
// the consumer processes the returned batch are picked up by the next Drain.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Len reports the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Wake returns the channel signalled on Push. The consumer blocks on it
// between ticks; a single signal may cover any number of pushes.
func (q *Queue[T]) Wake() <-chan struct{} {
	return q.wake
}
