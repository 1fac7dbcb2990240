package pipeline

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrQueueClosed is returned by Pop once the queue is closed and every
// remaining task has been handed out, and by Push after Close.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded FIFO of pending tasks. Push never blocks; Pop
// blocks until a task arrives, the queue closes, or the context ends.
// Closing the queue is the producer's signal that no more tasks will
// arrive, which is what lets the executor shut down cleanly once the
// in-flight tasks drain.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *list.List
	closed bool
}

// NewQueue constructs an empty, open queue.
func NewQueue() *Queue {
	q := &Queue{items: list.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a task. Safe for use by multiple producers.
func (q *Queue) Push(t Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("push %d: %w", t.Job.ID, ErrQueueClosed)
	}
	q.items.PushBack(t)
	q.cond.Signal()
	return nil
}

// Pop removes and returns the oldest task. After Close it keeps handing
// out the remaining backlog and only then reports ErrQueueClosed.
func (q *Queue) Pop(ctx context.Context) (Task, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if front := q.items.Front(); front != nil {
			q.items.Remove(front)
			return front.Value.(Task), nil
		}
		if q.closed {
			return Task{}, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return Task{}, fmt.Errorf("pop canceled: %w", err)
		}
		q.cond.Wait()
	}
}

// Len reports the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Close marks the producer side done. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
