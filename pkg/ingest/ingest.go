// Package ingest drives a deduplication run: it loads records from a Source,
// resolves each key group on a worker pool and writes the routed result to a Sink.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/japaniel/sigdedup/pkg/identity"
	"github.com/japaniel/sigdedup/pkg/resolve"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Ingester runs the whole pipeline for one batch of records.
type Ingester struct {
	Source   Source
	Sink     Sink
	Builder  *identity.SignatureBuilder
	Resolver *resolve.Resolver

	// Workers is the number of goroutines resolving key groups.
	Workers int
	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
	// OnProgress is called with the number of resolved groups and the total.
	OnProgress func(done, total int)
	// Logger receives run diagnostics. nil means no logging.
	Logger *slog.Logger
	// RouteReviewToLog sends NEEDS_NAME_REVIEW pairs to the log sink instead of dropping them.
	RouteReviewToLog bool
}

// NewIngester creates an Ingester with default normalization, scoring and thresholds.
func NewIngester(src Source, sink Sink) *Ingester {
	return &Ingester{
		Source:   src,
		Sink:     sink,
		Builder:  identity.NewSignatureBuilder(nil),
		Resolver: resolve.NewResolver(resolve.DefaultWeights(), resolve.DefaultThresholds()),
		Workers:  4,
	}
}

// Report summarises a run.
type Report struct {
	Records int
	// Groups counts distinct non-null keys.
	Groups int
	// Pairs counts classified pairs.
	Pairs           int
	StatusCounts    map[resolve.Status]int
	IngestedPairs   int
	IngestedRecords int
	Logged          int
	Review          int
	// ExactDuplicateKeys counts keys holding records with identical fingerprints.
	// Those pairs are never classified, so the key is not treated as conflicted.
	ExactDuplicateKeys  int
	ExactDuplicatePairs int
}

func (ig *Ingester) logger() *slog.Logger {
	if ig.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return ig.Logger
}

// Run executes the pipeline. The Sink is written but not closed.
func (ig *Ingester) Run(ctx context.Context) (Report, error) {
	if ig.Source == nil || ig.Sink == nil {
		return Report{}, errors.New("ingester requires a source and a sink")
	}
	log := ig.logger()
	builder := ig.Builder
	if builder == nil {
		builder = identity.NewSignatureBuilder(nil)
	}
	resolver := ig.Resolver
	if resolver == nil {
		resolver = resolve.NewResolver(resolve.DefaultWeights(), resolve.DefaultThresholds())
	}

	records, err := ig.Source.LoadRecords(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load records: %w", err)
	}
	builder.ApplyAll(records)

	groups := resolve.GroupByKey(records)
	report := Report{
		Records:      len(records),
		Groups:       len(groups),
		StatusCounts: make(map[resolve.Status]int),
	}
	log.Info("records loaded", "records", len(records), "keys", len(groups))

	results, err := ig.resolveGroups(ctx, resolver, groups)
	if err != nil {
		return report, err
	}

	var pairs []resolve.ClassifiedPair
	for _, res := range results {
		pairs = append(pairs, res.Pairs...)
		if res.ExactDuplicates > 0 {
			report.ExactDuplicateKeys++
			report.ExactDuplicatePairs += res.ExactDuplicates
		}
	}
	resolve.SortPairs(pairs)
	report.Pairs = len(pairs)
	for _, p := range pairs {
		report.StatusCounts[p.Status]++
	}
	if report.ExactDuplicateKeys > 0 {
		log.Warn("identical fingerprints under one key are not classified; their records are ingested as unconflicted",
			"keys", report.ExactDuplicateKeys, "pairs", report.ExactDuplicatePairs)
	}

	routed := resolve.Route(records, pairs)
	if err := ig.write(ctx, routed); err != nil {
		return report, err
	}

	report.IngestedPairs = len(routed.IngestPairs)
	report.IngestedRecords = len(routed.IngestRecords)
	report.Logged = len(routed.Log)
	report.Review = len(routed.Review)
	if ig.RouteReviewToLog {
		report.Logged += len(routed.Review)
	}
	log.Info("run complete",
		"pairs", report.Pairs,
		"ingested_pairs", report.IngestedPairs,
		"ingested_records", report.IngestedRecords,
		"logged", report.Logged,
		"review", report.Review)
	return report, nil
}

// resolveGroups fans the multi-record groups out to the worker pool and collects the results.
func (ig *Ingester) resolveGroups(ctx context.Context, resolver *resolve.Resolver, groups []resolve.Group) ([]resolve.GroupResult, error) {
	var work []resolve.Group
	for _, g := range groups {
		if len(g.Records) > 1 {
			work = append(work, g)
		}
	}
	total := len(work)
	if total == 0 {
		if ig.OnProgress != nil {
			ig.OnProgress(0, 0)
		}
		return nil, nil
	}

	workers := ig.Workers
	if workers <= 0 {
		workers = 1
	}
	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan resolve.GroupResult, workers*2)
	doneCh := make(chan []resolve.GroupResult, 1)
	go func() {
		var out []resolve.GroupResult
		for res := range resultCh {
			out = append(out, res)
			if ig.OnProgress != nil {
				ig.OnProgress(len(out), total)
			}
		}
		doneCh <- out
	}()

	wp.Start(ctx)

	var submitErr error
	for _, g := range work {
		group := g
		err := wp.SubmitCtx(ctx, func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := resolver.ResolveGroup(group)
			select {
			case resultCh <- res:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			submitErr = fmt.Errorf("failed to submit key group %s: %w", group.Key, err)
			cancel()
			break
		}
	}

	wp.Close()
	close(resultCh)
	out := <-doneCh

	if submitErr != nil {
		return nil, submitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pe, ok := wp.(interface{ Err() error }); ok && pe.Err() != nil {
		return nil, fmt.Errorf("key group job failed: %w", pe.Err())
	}
	if len(out) != total {
		return nil, fmt.Errorf("resolved %d of %d key groups", len(out), total)
	}
	return out, nil
}

func (ig *Ingester) write(ctx context.Context, routed resolve.Routed) error {
	for _, p := range routed.IngestPairs {
		if err := ig.Sink.IngestPair(ctx, p); err != nil {
			return fmt.Errorf("failed to ingest pair %d/%d: %w", p.A.ID, p.B.ID, err)
		}
	}
	for _, p := range routed.Log {
		if err := ig.Sink.LogPair(ctx, p); err != nil {
			return fmt.Errorf("failed to log pair %d/%d: %w", p.A.ID, p.B.ID, err)
		}
	}
	if ig.RouteReviewToLog {
		for _, p := range routed.Review {
			if err := ig.Sink.LogPair(ctx, p); err != nil {
				return fmt.Errorf("failed to log review pair %d/%d: %w", p.A.ID, p.B.ID, err)
			}
		}
	}
	for _, r := range routed.IngestRecords {
		if err := ig.Sink.IngestRecord(ctx, r); err != nil {
			return fmt.Errorf("failed to ingest record %d: %w", r.ID, err)
		}
	}
	return nil
}
