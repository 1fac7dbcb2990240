package progress

import "io"

// CountingWriter wraps the download job body's writer and reports byte
// increments to the hub as BYTES events.
type CountingWriter struct {
	w     io.Writer
	hub   *Hub
	jobID int
	name  string
	total int64
	n     int64
}

// NewCountingWriter wraps w. total is the declared content length, or
// -1 when the server did not send one.
func NewCountingWriter(w io.Writer, hub *Hub, jobID int, name string, total int64) *CountingWriter {
	return &CountingWriter{w: w, hub: hub, jobID: jobID, name: name, total: total}
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.n += int64(n)
		c.hub.Emit(Event{
			Stage: StageBytes,
			JobID: c.jobID,
			Mode:  "download",
			Name:  c.name,
			Bytes: int64(n),
			Total: c.total,
		})
	}
	return n, err
}

// Written reports the byte count so far.
func (c *CountingWriter) Written() int64 { return c.n }
