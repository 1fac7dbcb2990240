package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/firedl/firedl/internal/progress"
)

// PrometheusSink exports run progress via Prometheus. It owns the
// collectors for job starts/completions, in-flight jobs, and downloaded
// bytes, and is what the optional --metrics-addr listener serves.
type PrometheusSink struct {
	jobsStarted   prometheus.Counter
	jobsCompleted *prometheus.CounterVec
	jobsInFlight  prometheus.Gauge
	jobDuration   *prometheus.HistogramVec
	bytesTotal    prometheus.Counter

	tracker *jobTracker
}

// NewPrometheusSink registers the collectors against reg, falling back
// to the default registerer when reg is nil.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		jobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "firedl_jobs_started_total",
			Help: "Total jobs admitted by the executor.",
		}),
		jobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firedl_jobs_completed_total",
			Help: "Total jobs completed partitioned by result.",
		}, []string{"result"}),
		jobsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "firedl_jobs_in_flight",
			Help: "Job bodies currently executing.",
		}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "firedl_job_duration_seconds",
			Help:    "Wall time per completed job.",
			Buckets: []float64{0.05, 0.25, 1, 5, 15, 60, 300},
		}, []string{"result"}),
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "firedl_download_bytes_total",
			Help: "Bytes written to disk across all download jobs.",
		}),
		tracker: newJobTracker(),
	}
	for _, collector := range []prometheus.Collector{
		s.jobsStarted, s.jobsCompleted, s.jobsInFlight, s.jobDuration, s.bytesTotal,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from the batch. Safe for concurrent
// use.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageJobStart:
			s.jobsStarted.Inc()
			if s.tracker.start(evt.JobID) {
				s.jobsInFlight.Inc()
			}
		case progress.StageJobDone:
			s.complete(evt, "success")
		case progress.StageJobError:
			s.complete(evt, "error")
		case progress.StageBytes:
			if evt.Bytes > 0 {
				s.bytesTotal.Add(float64(evt.Bytes))
			}
		}
	}
	return nil
}

func (s *PrometheusSink) complete(evt progress.Event, result string) {
	s.jobsCompleted.WithLabelValues(result).Inc()
	if evt.Dur > 0 {
		s.jobDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
	if s.tracker.complete(evt.JobID) {
		s.jobsInFlight.Dec()
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error { return nil }

// jobTracker keeps the in-flight gauge honest when batches replay a
// stage twice.
type jobTracker struct {
	mu      sync.Mutex
	running map[int]struct{}
}

func newJobTracker() *jobTracker {
	return &jobTracker{running: make(map[int]struct{})}
}

func (t *jobTracker) start(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; ok {
		return false
	}
	t.running[id] = struct{}{}
	return true
}

func (t *jobTracker) complete(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; !ok {
		return false
	}
	delete(t.running, id)
	return true
}
