package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/firedl/firedl/internal/progress"
)

func TestPrometheusSinkTracksJobLifecycle(t *testing.T) {
	t.Parallel()

	sink, err := NewPrometheusSink(prometheus.NewRegistry())
	require.NoError(t, err)

	batch := []progress.Event{
		{Stage: progress.StageJobStart, JobID: 1, Mode: "download"},
		{Stage: progress.StageJobStart, JobID: 2, Mode: "download"},
		{Stage: progress.StageBytes, JobID: 1, Mode: "download", Bytes: 2048},
		{Stage: progress.StageJobDone, JobID: 1, Mode: "download", Dur: time.Second},
		{Stage: progress.StageJobError, JobID: 2, Mode: "download", Dur: time.Second},
	}
	require.NoError(t, sink.Consume(context.Background(), batch))

	require.Equal(t, float64(2), testutil.ToFloat64(sink.jobsStarted))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.jobsCompleted.WithLabelValues("success")))
	require.Equal(t, float64(1), testutil.ToFloat64(sink.jobsCompleted.WithLabelValues("error")))
	require.Equal(t, float64(0), testutil.ToFloat64(sink.jobsInFlight))
	require.Equal(t, float64(2048), testutil.ToFloat64(sink.bytesTotal))
}

func TestPrometheusSinkDuplicateStagesKeepGaugeHonest(t *testing.T) {
	t.Parallel()

	sink, err := NewPrometheusSink(prometheus.NewRegistry())
	require.NoError(t, err)

	batch := []progress.Event{
		{Stage: progress.StageJobStart, JobID: 1},
		{Stage: progress.StageJobStart, JobID: 1},
		{Stage: progress.StageJobDone, JobID: 1},
		{Stage: progress.StageJobDone, JobID: 1},
	}
	require.NoError(t, sink.Consume(context.Background(), batch))
	require.Equal(t, float64(0), testutil.ToFloat64(sink.jobsInFlight))
}

func TestPrometheusSinkDoubleRegisterFails(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)
	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}
