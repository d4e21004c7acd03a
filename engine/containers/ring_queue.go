package containers

import (
	"sync"

	"github.com/spaghettifunk/xnagfx/engine/core"
)

// RingQueue is a FIFO ring buffer that grows when full. It is safe for
// concurrent use: producers may live on any goroutine.
type RingQueue[T any] struct {
	mu         sync.Mutex
	data       []T
	readIndex  int
	writeIndex int
	count      int
}

// Create a new RingQueue with an initial capacity
func NewRingQueue[T any](size int) *RingQueue[T] {
	if size < 1 {
		size = 1
	}
	return &RingQueue[T]{
		data: make([]T, size),
	}
}

// Enqueue adds an element to the queue
func (rq *RingQueue[T]) Enqueue(value T) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if rq.count == len(rq.data) {
		rq.growLocked()
	}
	rq.data[rq.writeIndex] = value
	rq.writeIndex = (rq.writeIndex + 1) % len(rq.data)
	rq.count++
}

// Dequeue removes and returns the front element in the queue
func (rq *RingQueue[T]) Dequeue() (T, error) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	var zero T
	if rq.count == 0 {
		return zero, core.ErrQueueEmpty
	}
	value := rq.data[rq.readIndex]
	rq.data[rq.readIndex] = zero
	rq.readIndex = (rq.readIndex + 1) % len(rq.data)
	rq.count--
	return value, nil
}

// Peek returns the front element without removing it
func (rq *RingQueue[T]) Peek() (T, error) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	if rq.count == 0 {
		var zero T
		return zero, core.ErrQueueEmpty
	}
	return rq.data[rq.readIndex], nil
}

// Drain removes every queued element, in FIFO order, and hands each to fn.
// fn runs outside the lock so it may enqueue again; those elements are left
// for the next Drain.
func (rq *RingQueue[T]) Drain(fn func(T)) int {
	rq.mu.Lock()
	items := make([]T, 0, rq.count)
	var zero T
	for rq.count > 0 {
		items = append(items, rq.data[rq.readIndex])
		rq.data[rq.readIndex] = zero
		rq.readIndex = (rq.readIndex + 1) % len(rq.data)
		rq.count--
	}
	rq.mu.Unlock()

	for _, item := range items {
		fn(item)
	}
	return len(items)
}

// IsEmpty checks if the queue is empty
func (rq *RingQueue[T]) IsEmpty() bool {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.count == 0
}

// Len returns the number of queued elements
func (rq *RingQueue[T]) Len() int {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.count
}

func (rq *RingQueue[T]) growLocked() {
	grown := make([]T, len(rq.data)*2)
	for i := 0; i < rq.count; i++ {
		grown[i] = rq.data[(rq.readIndex+i)%len(rq.data)]
	}
	rq.data = grown
	rq.readIndex = 0
	rq.writeIndex = rq.count
}
