// Package linkcheck validates the links of an HTML document: it classifies
// every <a> element, resolves in-page anchors, probes remote URLs through a
// bounded and throttled worker pool, and records findings in a caller-owned
// result.Collection.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/linklint/document"
	"github.com/lukemcguire/linklint/result"
	"github.com/lukemcguire/linklint/urlutil"
)

// Causes reported when a run is cancelled by the validator itself.
var (
	ErrSuperseded     = errors.New("validation superseded by a newer run")
	ErrDocumentClosed = errors.New("document closed")
)

// ErrMissingInput is returned by Validate when the working document or the
// collection is nil.
var ErrMissingInput = errors.New("validate requires a document and a collection")

// Validator runs validation passes over documents. One Validator can serve
// many documents concurrently; a new run for a document cancels the one in
// flight.
type Validator struct {
	cfg        Config
	rules      *urlutil.Rules
	access     *AccessibilityRules
	prober     *Prober
	robots     *RobotsGate
	progressCh chan<- Event
	logger     *slog.Logger

	mu   sync.Mutex
	runs map[string]*run
}

type run struct {
	cancel context.CancelCauseFunc
}

// New creates a Validator. The progressCh parameter is optional; pass nil to
// disable progress events. A nil logger discards output.
func New(cfg Config, progressCh chan<- Event, logger *slog.Logger) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	access, err := NewAccessibilityRules(cfg.LocalDomain, cfg.ExternalLinkText)
	if err != nil {
		return nil, err
	}

	prober := NewProber(ProbeOptions{
		Method:               cfg.RequestMethod,
		Timeout:              cfg.Timeout,
		MaxRedirects:         cfg.MaxRedirects,
		ValidateCertificates: cfg.ValidateCertificates,
		UserAgent:            cfg.UserAgent,
		RequestsPerSecond:    cfg.RequestsPerSecond,
		Retry:                NewRetryPolicy(cfg.Retries, cfg.RetryDelay),
	}, logger)

	var robots *RobotsGate
	if cfg.RespectRobots {
		// Separate client for robots.txt with shorter timeout
		robotsClient := &http.Client{
			Transport: prober.client.Transport,
			Timeout:   5 * time.Second,
		}
		robots = NewRobotsGate(robotsClient, cfg.UserAgent)
	}

	return &Validator{
		cfg:        cfg,
		rules:      urlutil.NewRules(cfg.ExcludedDomains),
		access:     access,
		prober:     prober,
		robots:     robots,
		progressCh: progressCh,
		logger:     logger,
		runs:       make(map[string]*run),
	}, nil
}

// Validate checks every link of work and records findings for docID in coll.
// full is the whole document and is used for anchor lookups; work is the
// part being validated and may be full itself. The collection entry is reset
// when the run starts, so repeated runs never duplicate findings.
//
// work and coll are required (ErrMissingInput); a nil full falls back to
// work. The returned Result holds this run's findings sorted for reporting.
// Otherwise the error is non-nil only when the run was cancelled: by ctx, by
// a newer run for the same docID (ErrSuperseded) or by Close
// (ErrDocumentClosed).
func (v *Validator) Validate(ctx context.Context, docID string, full, work *document.Document, coll *result.Collection) (*result.Result, error) {
	if work == nil || coll == nil {
		return nil, fmt.Errorf("validate %s: %w", docID, ErrMissingInput)
	}
	start := time.Now()
	if full == nil {
		full = work
	}
	runCtx, r, generation := v.begin(ctx, docID, coll)
	defer v.end(docID, r)

	links := work.Links()
	cache := newProbeCache()
	throttle := NewThrottle(v.cfg.DelayNumberOfLinksBeforeWait, v.cfg.DelayWait, v.logger)

	var (
		mu       sync.Mutex
		findings []result.Finding
		checked  int
		errCount int
	)
	record := func(link document.Link, linkFindings []result.Finding) {
		if runCtx.Err() != nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		for _, f := range linkFindings {
			if !coll.AddRun(docID, generation, f) {
				continue
			}
			findings = append(findings, f)
			if f.Severity == result.SeverityError {
				errCount++
			}
		}
		checked++
		v.emit(runCtx, Event{
			DocID:    docID,
			URL:      link.Href,
			Checked:  checked,
			Total:    len(links),
			Findings: len(findings),
			Errors:   errCount,
		})
	}

	v.logger.Debug("validation started", "doc", docID, "links", len(links), "workers", v.cfg.workers())

	var group errgroup.Group
	group.SetLimit(v.cfg.workers())
	for _, link := range links {
		if err := throttle.Wait(runCtx); err != nil {
			break
		}
		group.Go(func() error {
			record(link, v.shape(v.checkLink(runCtx, link, full, cache)))
			return nil
		})
	}
	// Workers never return errors; failures are findings.
	_ = group.Wait()

	if runCtx.Err() != nil {
		return nil, fmt.Errorf("validate %s: %w", docID, context.Cause(runCtx))
	}

	mu.Lock()
	sorted := make([]result.Finding, len(findings))
	copy(sorted, findings)
	mu.Unlock()
	result.SortFindings(sorted)

	stats := result.Stats{
		TotalLinks: len(links),
		Probed:     cache.count(),
		Duration:   time.Since(start),
	}
	stats.CountSeverities(sorted)

	v.logger.Debug("validation finished", "doc", docID, "findings", len(sorted), "probed", stats.Probed, "duration", stats.Duration)

	return &result.Result{
		Document: docID,
		Findings: sorted,
		Stats:    stats,
	}, nil
}

// Close cancels any run in flight for docID and removes its findings from
// coll.
func (v *Validator) Close(docID string, coll *result.Collection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if r, ok := v.runs[docID]; ok {
		r.cancel(ErrDocumentClosed)
		delete(v.runs, docID)
	}
	if coll != nil {
		coll.Remove(docID)
	}
}

// begin registers a run for docID, cancelling the previous one, and resets
// the document's findings.
func (v *Validator) begin(ctx context.Context, docID string, coll *result.Collection) (context.Context, *run, uint64) {
	runCtx, cancel := context.WithCancelCause(ctx)
	r := &run{cancel: cancel}

	v.mu.Lock()
	defer v.mu.Unlock()
	if prev, ok := v.runs[docID]; ok {
		v.logger.Debug("cancelling previous run", "doc", docID)
		prev.cancel(ErrSuperseded)
	}
	v.runs[docID] = r
	return runCtx, r, coll.Reset(docID)
}

func (v *Validator) end(docID string, r *run) {
	v.mu.Lock()
	if v.runs[docID] == r {
		delete(v.runs, docID)
	}
	v.mu.Unlock()
	r.cancel(nil)
}

func (v *Validator) emit(ctx context.Context, evt Event) {
	if v.progressCh == nil {
		return
	}
	select {
	case v.progressCh <- evt:
	case <-ctx.Done():
	}
}

// shape applies the configured finding mode to one link's findings.
func (v *Validator) shape(findings []result.Finding) []result.Finding {
	if v.cfg.FindingMode != FindingPerLink || len(findings) < 2 {
		return findings
	}
	merged, _ := result.Merge(findings)
	return []result.Finding{merged}
}
