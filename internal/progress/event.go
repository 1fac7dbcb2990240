// Package progress carries observable side effects out of the job
// bodies: job lifecycle milestones and download byte counts. The hub
// fans events out to sinks without ever blocking the jobs that emit
// them.
package progress

import (
	"context"
	"errors"
	"time"
)

// Stage denotes the kind of milestone an Event represents.
type Stage string

// Supported stages.
const (
	StageJobStart Stage = "JOB_START"
	StageJobDone  Stage = "JOB_DONE"
	StageJobError Stage = "JOB_ERROR"
	StageBytes    Stage = "BYTES"
)

// Event is one progress milestone. JobID and Stage are mandatory; Name
// is the download file name or scanned URL, Bytes the increment carried
// by a BYTES event, Total the content length when the server declared
// one (-1 otherwise).
type Event struct {
	Stage Stage
	JobID int
	Mode  string
	Name  string
	Bytes int64
	Total int64
	Dur   time.Duration
	Note  string
}

// Validate rejects events the sinks cannot attribute.
func (e Event) Validate() error {
	switch e.Stage {
	case StageJobStart, StageJobDone, StageJobError, StageBytes:
	default:
		return errors.New("unknown progress stage")
	}
	if e.JobID < 0 {
		return errors.New("negative job id")
	}
	return nil
}

// Sink consumes batches of events. Implementations must tolerate
// batches arriving in any order relative to job completion.
type Sink interface {
	Consume(ctx context.Context, batch []Event) error
	Close(ctx context.Context) error
}
