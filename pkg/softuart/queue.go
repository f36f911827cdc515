package softuart

import (
	"runtime"
	"sync/atomic"

	"github.com/robotalks/softuart/pkg/hal"
)

// Queue is the bounded ring of bytes waiting for transmission, shared
// between one producer and the tick handler (the only consumer).
// Indices and count change only with ticks masked; count is the sole
// authority on empty/full.
type Queue struct {
	mask hal.Mask
	buf  []byte
	r, w int
	n    atomic.Uint32
}

// NewQueue creates an empty queue holding up to capacity bytes.
func NewQueue(capacity int, mask hal.Mask) *Queue {
	return &Queue{mask: mask, buf: make([]byte, capacity)}
}

// Cap returns the capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Len returns the number of queued bytes.
func (q *Queue) Len() int {
	return int(q.n.Load())
}

// Free returns the number of free slots.
func (q *Queue) Free() int {
	return len(q.buf) - q.Len()
}

// Reset empties the queue. Callers must hold the mask.
func (q *Queue) Reset() {
	q.r, q.w = 0, 0
	q.n.Store(0)
}

// TryEnqueue queues b unless the queue is full.
func (q *Queue) TryEnqueue(b byte) error {
	s := q.mask.Disable()
	defer q.mask.Restore(s)
	if q.Len() == len(q.buf) {
		return ErrBusy
	}
	q.put(b)
	return nil
}

// Enqueue waits until a slot is free and queues b. The count only
// decreases asynchronously, so the wait needs no critical section.
func (q *Queue) Enqueue(b byte) {
	for q.Len() == len(q.buf) {
		runtime.Gosched()
	}
	s := q.mask.Disable()
	q.put(b)
	q.mask.Restore(s)
}

// TryEnqueueAll queues all of p, or nothing when fewer than len(p) slots
// are free.
func (q *Queue) TryEnqueueAll(p []byte) error {
	s := q.mask.Disable()
	defer q.mask.Restore(s)
	if q.Free() < len(p) {
		return ErrBusy
	}
	for _, b := range p {
		q.put(b)
	}
	return nil
}

// EnqueueAll waits once until len(p) slots are free, then queues all of p
// in one critical section. len(p) must not exceed Cap.
func (q *Queue) EnqueueAll(p []byte) {
	for q.Free() < len(p) {
		runtime.Gosched()
	}
	s := q.mask.Disable()
	for _, b := range p {
		q.put(b)
	}
	q.mask.Restore(s)
}

func (q *Queue) put(b byte) {
	q.buf[q.w] = b
	if q.w++; q.w == len(q.buf) {
		q.w = 0
	}
	q.n.Add(1)
}

// empty is called in tick context.
func (q *Queue) empty() bool {
	return q.n.Load() == 0
}

// dequeue is called in tick context on a non-empty queue.
func (q *Queue) dequeue() byte {
	b := q.buf[q.r]
	if q.r++; q.r == len(q.buf) {
		q.r = 0
	}
	q.n.Add(^uint32(0))
	return b
}
