package scan

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/filter"
	"github.com/firedl/firedl/internal/httpclient"
	"github.com/firedl/firedl/internal/pipeline"
	"github.com/firedl/firedl/internal/progress"
)

// Options configures one scan run.
type Options struct {
	// OutputPath receives the discovered URLs, one per line; empty
	// means stdout.
	OutputPath string
	Parallel   int
	Patterns   []string
	URLs       []*url.URL
	Client     *httpclient.Client
	Hub        *progress.Hub
	Logger     *zap.Logger
}

// Run executes the scan pipeline. The queue is seeded from the initial
// input only; discovered links go to the sink and are reported after
// the executor has fully shut down. Per-job failures are logged and do
// not affect the exit code.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	urlFilter, err := filter.New(opts.Patterns)
	if err != nil {
		return err
	}
	executor, err := pipeline.NewExecutor(opts.Parallel, logger)
	if err != nil {
		return err
	}

	// The output file is part of the run configuration, so an unwritable
	// path must abort before any request is issued.
	out := os.Stdout
	if opts.OutputPath != "" {
		f, err := os.Create(opts.OutputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	dedup := pipeline.NewDedup()
	queue := pipeline.NewQueue()
	nextID := 0
	for _, u := range opts.URLs {
		if !dedup.Observe(u) {
			continue
		}
		job := pipeline.Job{ID: nextID, URL: u}
		nextID++
		t := &task{job: job, client: opts.Client, filter: urlFilter, hub: opts.Hub, logger: logger}
		if err := queue.Push(pipeline.Task{Job: job, Run: t.run}); err != nil {
			return fmt.Errorf("seed queue: %w", err)
		}
	}
	queue.Close()
	logger.Info("scanning urls", zap.Int("count", nextID))

	// Phase 1: run the executor to completion.
	sink := pipeline.NewSink()
	sink.Consume(executor.Run(ctx, queue))

	// Phase 2: drain the sink and report.
	w := bufio.NewWriter(out)

	var failed, found int
	for _, r := range sink.Drain() {
		if r.Failed() {
			failed++
			continue
		}
		for _, link := range r.Links {
			fmt.Fprintln(w, link.String())
			found++
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write discovered urls: %w", err)
	}

	logger.Info("scan run finished",
		zap.Int("scanned", nextID-failed),
		zap.Int("failed", failed),
		zap.Int("discovered", found),
	)
	return nil
}
