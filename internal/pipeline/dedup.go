package pipeline

import "net/url"

// Dedup filters previously seen URLs out of the producer's input stream.
// It is deliberately not safe for concurrent use: job creation is
// sequential even though job execution is not, and the single-threaded
// producer is the only caller. The seen set lives exactly as long as
// the run.
type Dedup struct {
	seen map[string]struct{}
}

// NewDedup returns an empty deduplicator.
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]struct{})}
}

// Observe records u and reports whether it is new. It returns true
// exactly once per distinct URL, on first observation; identity is the
// exact string form of the URL.
func (d *Dedup) Observe(u *url.URL) bool {
	key := u.String()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}
