package pipeline

import "sync"

// Sink collects results as concurrently running job bodies produce
// them. Put is safe for concurrent use; Drain is meant for the single
// consumer and only after the executor's outcome stream has closed, so
// no result is observed before the sink knows no more will arrive.
type Sink struct {
	mu      sync.Mutex
	results []Result
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Put appends one result.
func (s *Sink) Put(r Result) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
}

// Consume puts every result from the stream until it closes.
func (s *Sink) Consume(results <-chan Result) {
	for r := range results {
		s.Put(r)
	}
}

// Drain returns the collected results in arrival order.
func (s *Sink) Drain() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}
