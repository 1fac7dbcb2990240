// Package sinks provides the progress.Sink implementations shipped with
// the tool.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/progress"
)

// LogSink emits structured logs for job lifecycle events. BYTES events
// are logged at debug level only so a large transfer does not flood the
// output.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.Int("job_id", evt.JobID),
			zap.String("mode", evt.Mode),
			zap.String("name", evt.Name),
		}
		switch evt.Stage {
		case progress.StageBytes:
			s.logger.Debug("transfer progress", append(fields,
				zap.Int64("bytes", evt.Bytes),
				zap.Int64("total", evt.Total),
			)...)
		case progress.StageJobError:
			s.logger.Warn("job failed", append(fields,
				zap.Duration("dur", evt.Dur),
				zap.String("error", evt.Note),
			)...)
		default:
			s.logger.Info("job "+string(evt.Stage), append(fields,
				zap.Duration("dur", evt.Dur),
			)...)
		}
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error { return nil }
