// Package download implements the bulk parallel download mode: plan
// jobs from the input URL set, stream each body to a temp file, and
// atomically rename into place.
package download

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/httpclient"
	"github.com/firedl/firedl/internal/pipeline"
	"github.com/firedl/firedl/internal/progress"
	"github.com/firedl/firedl/internal/urlutil"
)

// Planner turns input URLs into download tasks. It runs on the single
// producer goroutine, so the seen-set and the per-basename suffix
// counter need no synchronization. State is scoped to one run and
// never persisted.
type Planner struct {
	outputDir  string
	redownload bool
	client     *httpclient.Client
	hub        *progress.Hub
	logger     *zap.Logger

	dedup    *pipeline.Dedup
	suffixes map[string]int
	nextID   int
}

// NewPlanner constructs a planner writing into outputDir.
func NewPlanner(outputDir string, redownload bool, client *httpclient.Client, hub *progress.Hub, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		outputDir:  outputDir,
		redownload: redownload,
		client:     client,
		hub:        hub,
		logger:     logger,
		dedup:      pipeline.NewDedup(),
		suffixes:   make(map[string]int),
	}
}

// Plan creates at most one task per distinct URL. URLs without a
// derivable file name are rejected with a logged error and do not
// become jobs; existing destinations are skipped unless the redownload
// override is set, in which case the job carries an unlink marker.
func (p *Planner) Plan(urls []*url.URL) []pipeline.Task {
	var tasks []pipeline.Task
	for _, t := range p.plan(urls) {
		tasks = append(tasks, pipeline.Task{Job: t.job, Run: t.run})
	}
	return tasks
}

func (p *Planner) plan(urls []*url.URL) []*task {
	var tasks []*task
	for _, u := range urls {
		if !p.dedup.Observe(u) {
			continue
		}

		name, ok := urlutil.FileName(u)
		if !ok {
			p.logger.Error("no file name derivable from url, rejecting",
				zap.Stringer("url", u))
			continue
		}
		name = p.resolveCollision(name)

		unlinkExisting := false
		path := filepath.Join(p.outputDir, name)
		if _, err := os.Stat(path); err == nil {
			if !p.redownload {
				p.logger.Info("file exists, skipping", zap.String("file_name", name))
				continue
			}
			p.logger.Info("file exists, redownloading", zap.String("file_name", name))
			unlinkExisting = true
		}

		job := pipeline.Job{ID: p.nextID, URL: u}
		p.nextID++

		tasks = append(tasks, &task{
			job:            job,
			client:         p.client,
			fileName:       name,
			path:           path,
			unlinkExisting: unlinkExisting,
			hub:            p.hub,
			logger:         p.logger,
		})
	}
	return tasks
}

// resolveCollision maps the Nth job per basename to x, x.2, x.3, ...
// so no two jobs in a run share a destination path.
func (p *Planner) resolveCollision(name string) string {
	suffix, ok := p.suffixes[name]
	if !ok {
		p.suffixes[name] = 2
		return name
	}
	p.suffixes[name]++
	return fmt.Sprintf("%s.%d", name, suffix)
}
