package progress

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestCountingWriterReportsIncrements(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	hub := NewHub(Config{MaxBatchWait: time.Hour}, sink)

	var buf bytes.Buffer
	w := NewCountingWriter(&buf, hub, 3, "file.bin", 10)
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := w.Write([]byte("world")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := hub.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if w.Written() != 10 {
		t.Fatalf("Written() = %d, want 10", w.Written())
	}
	if buf.String() != "helloworld" {
		t.Fatalf("underlying writer got %q", buf.String())
	}

	events, _ := sink.snapshot()
	var total int64
	for _, evt := range events {
		if evt.Stage != StageBytes {
			t.Fatalf("unexpected stage %s", evt.Stage)
		}
		if evt.JobID != 3 || evt.Name != "file.bin" || evt.Total != 10 {
			t.Fatalf("event fields wrong: %+v", evt)
		}
		total += evt.Bytes
	}
	if total != 10 {
		t.Fatalf("events carried %d bytes, want 10", total)
	}
}
