package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testTask(id int) Task {
	return Task{Job: Job{ID: id}}
}

func TestQueuePushPopOrder(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	for i := 0; i < 3; i++ {
		if err := q.Push(testTask(i)); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		task, err := q.Pop(context.Background())
		if err != nil {
			t.Fatalf("Pop() error = %v", err)
		}
		if task.Job.ID != i {
			t.Fatalf("Pop() job id = %d, want %d (FIFO)", task.Job.ID, i)
		}
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	result := make(chan Task, 1)
	errCh := make(chan error, 1)

	go func() {
		task, err := q.Pop(context.Background())
		if err != nil {
			errCh <- err
			return
		}
		result <- task
	}()

	time.Sleep(10 * time.Millisecond) // allow goroutine to block
	if err := q.Push(testTask(7)); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	select {
	case err := <-errCh:
		t.Fatalf("Pop() error = %v", err)
	case got := <-result:
		if got.Job.ID != 7 {
			t.Fatalf("expected job 7, got %+v", got.Job)
		}
	case <-time.After(time.Second):
		t.Fatal("pop did not return task")
	}
}

func TestQueueCloseDrainsBacklogFirst(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	if err := q.Push(testTask(1)); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	q.Close()

	task, err := q.Pop(context.Background())
	if err != nil {
		t.Fatalf("Pop() after close should drain backlog, got error %v", err)
	}
	if task.Job.ID != 1 {
		t.Fatalf("expected job 1, got %+v", task.Job)
	}

	if _, err := q.Pop(context.Background()); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}

	if err := q.Push(testTask(2)); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Push() after close: expected ErrQueueClosed, got %v", err)
	}

	// Closing twice should be safe.
	q.Close()
}

func TestQueuePopCancellation(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Pop(ctx)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("pop did not observe cancellation")
	}
}
