// Package ringbuffer provides a bounded FIFO that drops its oldest entries
// when full.
package ringbuffer

import "sync"

const defaultCapacity = 10000

// Buffer is a bounded, thread-safe ring of values.
type Buffer[T any] struct {
	mu       sync.Mutex
	values   []T
	head     int // next write position
	tail     int // next read position
	count    int
	capacity int

	dropped int64
}

// New creates a buffer; a non-positive capacity uses the default.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer[T]{
		values:   make([]T, capacity),
		capacity: capacity,
	}
}

// Enqueue adds v, dropping the oldest value when the buffer is full.
func (b *Buffer[T]) Enqueue(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count >= b.capacity {
		var zero T
		b.values[b.tail] = zero
		b.tail = (b.tail + 1) % b.capacity
		b.count--
		b.dropped++
	}

	b.values[b.head] = v
	b.head = (b.head + 1) % b.capacity
	b.count++
}

// DequeueBatch removes up to n values, oldest first.
func (b *Buffer[T]) DequeueBatch(n int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 || n <= 0 {
		return nil
	}
	n = min(n, b.count)

	var zero T
	out := make([]T, n)
	for i := range n {
		out[i] = b.values[b.tail]
		b.values[b.tail] = zero
		b.tail = (b.tail + 1) % b.capacity
	}
	b.count -= n
	return out
}

func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns how many values were overwritten before being dequeued.
func (b *Buffer[T]) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
