package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Executor runs queued tasks with bounded parallelism. At most limit
// job bodies are in flight at any moment; a finishing body immediately
// frees its slot for the next queued task. Completion order is
// unrelated to submission order, and one body's failure never cancels
// its siblings.
type Executor struct {
	limit  int
	logger *zap.Logger
}

// NewExecutor validates the concurrency limit. A limit of 1 degenerates
// to strictly sequential execution; 0 or less is a configuration error.
func NewExecutor(limit int, logger *zap.Logger) (*Executor, error) {
	if limit < 1 {
		return nil, fmt.Errorf("concurrency limit must be at least 1, got %d", limit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{limit: limit, logger: logger}, nil
}

// Run starts the worker pool and returns the outcome stream. The
// channel closes only after the queue is closed, its backlog is
// drained, and every admitted body has returned. Context cancellation
// is the one early exit; the workers report it through the group and
// it is logged before the stream closes.
func (e *Executor) Run(ctx context.Context, q *Queue) <-chan Result {
	results := make(chan Result)

	var g errgroup.Group
	for i := 0; i < e.limit; i++ {
		g.Go(func() error {
			for {
				task, err := q.Pop(ctx)
				if errors.Is(err, ErrQueueClosed) {
					return nil
				}
				if err != nil {
					return err
				}
				results <- e.execute(ctx, task)
			}
		})
	}
	go func() {
		if err := g.Wait(); err != nil {
			e.logger.Warn("executor stopped before queue was drained", zap.Error(err))
		}
		close(results)
	}()
	return results
}

// execute invokes the job body, converting a panic into a failed result
// so a broken body cannot take down the pool.
func (e *Executor) execute(ctx context.Context, t Task) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("job body panicked",
				zap.Int("job_id", t.Job.ID),
				zap.Stringer("url", t.Job.URL),
				zap.Any("panic", r),
			)
			res = Result{Job: t.Job, Err: fmt.Errorf("job body panic: %v", r)}
		}
	}()
	return t.Run(ctx)
}
