// Package scan implements the link discovery mode: fetch seed URLs,
// extract anchor targets from HTML responses, filter, and report.
// Discovered links are routed to the result sink, never back into the
// queue, so a scan is single-level by design.
package scan

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/filter"
	"github.com/firedl/firedl/internal/httpclient"
	"github.com/firedl/firedl/internal/pipeline"
	"github.com/firedl/firedl/internal/progress"
)

// task is the scan job body for one seed URL.
type task struct {
	job    pipeline.Job
	client *httpclient.Client
	filter *filter.Filter
	hub    *progress.Hub
	logger *zap.Logger
}

func (t *task) run(ctx context.Context) pipeline.Result {
	start := time.Now()
	t.hub.Emit(progress.Event{
		Stage: progress.StageJobStart, JobID: t.job.ID, Mode: "scan", Name: t.job.URL.String(),
	})

	resp, err := t.client.Get(ctx, t.job.URL.String())
	if err != nil {
		return t.fail(start, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	// Only an exact text/html content type is parsed. Anything else,
	// including a missing header or a charset parameter, yields zero
	// links; that is not an error.
	var links []*url.URL
	if resp.Header.Get("Content-Type") == "text/html" {
		links, err = ExtractLinks(resp.Body, t.job.URL)
		if err != nil {
			return t.fail(start, err)
		}
	}

	kept := links[:0]
	for _, link := range links {
		if t.filter.Matches(link) {
			kept = append(kept, link)
		}
	}

	t.hub.Emit(progress.Event{
		Stage: progress.StageJobDone, JobID: t.job.ID, Mode: "scan",
		Name: t.job.URL.String(), Dur: time.Since(start),
	})
	return pipeline.Result{Job: t.job, Links: kept}
}

func (t *task) fail(start time.Time, err error) pipeline.Result {
	t.logger.Error("scan failed",
		zap.Int("job_id", t.job.ID),
		zap.Stringer("url", t.job.URL),
		zap.Error(err),
	)
	t.hub.Emit(progress.Event{
		Stage: progress.StageJobError, JobID: t.job.ID, Mode: "scan",
		Name: t.job.URL.String(), Dur: time.Since(start), Note: err.Error(),
	})
	return pipeline.Result{Job: t.job, Err: err}
}

// ExtractLinks pulls every anchor href out of the HTML document and
// resolves it against the page's own URL. Values that fail to resolve
// are silently dropped.
func ExtractLinks(body io.Reader, base *url.URL) ([]*url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref))
	})
	return links, nil
}
