package download

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/httpclient"
	"github.com/firedl/firedl/internal/pipeline"
	"github.com/firedl/firedl/internal/progress"
)

// Options configures one download run.
type Options struct {
	OutputDir          string
	Parallel           int
	RedownloadExisting bool
	URLs               []*url.URL
	Client             *httpclient.Client
	Hub                *progress.Hub
	Logger             *zap.Logger
}

// Run executes the download pipeline: plan jobs sequentially, execute
// them with bounded parallelism, then drain the sink for the summary.
// Only configuration errors are returned; per-job failures are logged
// and do not affect the exit code.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(opts.OutputDir)
	if err != nil {
		return fmt.Errorf("output path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", opts.OutputDir)
	}

	executor, err := pipeline.NewExecutor(opts.Parallel, logger)
	if err != nil {
		return err
	}

	planner := NewPlanner(opts.OutputDir, opts.RedownloadExisting, opts.Client, opts.Hub, logger)
	tasks := planner.Plan(opts.URLs)
	logger.Info("downloading files", zap.Int("count", len(tasks)))

	queue := pipeline.NewQueue()
	for _, t := range tasks {
		if err := queue.Push(t); err != nil {
			return fmt.Errorf("seed queue: %w", err)
		}
	}
	queue.Close()

	// Phase 1: run the executor to completion.
	sink := pipeline.NewSink()
	sink.Consume(executor.Run(ctx, queue))

	// Phase 2: drain the sink.
	var failed int
	for _, r := range sink.Drain() {
		if r.Failed() {
			failed++
		}
	}
	logger.Info("download run finished",
		zap.Int("succeeded", len(tasks)-failed),
		zap.Int("failed", failed),
	)
	return nil
}
