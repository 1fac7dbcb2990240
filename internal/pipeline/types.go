// Package pipeline implements the concurrent job execution core shared by
// the download and scan commands: URL deduplication, an unbounded task
// queue, a bounded executor, and the result sink the runners drain.
package pipeline

import (
	"context"
	"net/url"
)

// Job identifies one unit of work tied to a single URL. IDs are assigned
// sequentially by the producer before dispatch and are never reused
// within a run.
type Job struct {
	ID  int
	URL *url.URL
}

// Task couples a Job with the mode-specific body the executor invokes.
// The body is built by the producer (closing over its destination path,
// flags, shared client, and so on) and runs at most once.
type Task struct {
	Job Job
	Run func(ctx context.Context) Result
}

// Result is the outcome of one task. Exactly one of the mode-specific
// fields is meaningful: Path for downloads, Links for scans. Ownership
// transfers to the sink when the executor emits it.
type Result struct {
	Job   Job
	Err   error
	Path  string
	Links []*url.URL
}

// Failed reports whether the job body returned an error.
func (r Result) Failed() bool { return r.Err != nil }
