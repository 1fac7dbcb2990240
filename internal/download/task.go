package download

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/httpclient"
	"github.com/firedl/firedl/internal/pipeline"
	"github.com/firedl/firedl/internal/progress"
)

// task is the download job body. Each task owns exactly one destination
// path; the planner guarantees paths are unique within the run.
type task struct {
	job            pipeline.Job
	client         *httpclient.Client
	fileName       string
	path           string
	unlinkExisting bool
	hub            *progress.Hub
	logger         *zap.Logger
}

func (t *task) run(ctx context.Context) pipeline.Result {
	start := time.Now()
	t.hub.Emit(progress.Event{
		Stage: progress.StageJobStart, JobID: t.job.ID, Mode: "download", Name: t.fileName,
	})

	resp, err := t.client.Get(ctx, t.job.URL.String())
	if err != nil {
		return t.fail(start, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	// Transport-level failures only; status codes are not inspected.
	if err := t.save(resp); err != nil {
		return t.fail(start, err)
	}

	t.hub.Emit(progress.Event{
		Stage: progress.StageJobDone, JobID: t.job.ID, Mode: "download",
		Name: t.fileName, Dur: time.Since(start),
	})
	return pipeline.Result{Job: t.job, Path: t.path}
}

// save streams the body to a hidden .part temp file in the destination
// directory, flushes it to storage, and renames it into place. The temp
// file lives next to the destination so the rename stays on one
// filesystem and a partially written body is never visible under the
// final name. On error the temp file is left behind.
func (t *task) save(resp *http.Response) error {
	tempPath := filepath.Join(filepath.Dir(t.path), "."+t.fileName+".part")

	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	w := bufio.NewWriter(f)
	cw := progress.NewCountingWriter(w, t.hub, t.job.ID, t.fileName, resp.ContentLength)

	if _, err := io.Copy(cw, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if t.unlinkExisting {
		if err := os.Remove(t.path); err != nil {
			return fmt.Errorf("unlink existing file: %w", err)
		}
	}
	if err := os.Rename(tempPath, t.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (t *task) fail(start time.Time, err error) pipeline.Result {
	t.logger.Error("download failed",
		zap.Int("job_id", t.job.ID),
		zap.String("file_name", t.fileName),
		zap.Error(err),
	)
	t.hub.Emit(progress.Event{
		Stage: progress.StageJobError, JobID: t.job.ID, Mode: "download",
		Name: t.fileName, Dur: time.Since(start), Note: err.Error(),
	})
	return pipeline.Result{Job: t.job, Err: err}
}
