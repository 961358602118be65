package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/japaniel/sigdedup/pkg/identity"
	"github.com/japaniel/sigdedup/pkg/resolve"
)

// RecordSource reads person records from the records table.
type RecordSource struct {
	DB *sql.DB
}

// LoadRecords implements ingest.Source.
func (s *RecordSource) LoadRecords(ctx context.Context) ([]identity.Record, error) {
	return LoadRecords(ctx, s.DB)
}

// ResultSink writes a run's results through a BatchWriter. Writes are
// asynchronous; Close must be called to commit the tail and surface errors.
type ResultSink struct {
	RunID string
	bw    *BatchWriter
}

// NewResultSink creates a sink for runID committing every batchSize rows.
func NewResultSink(conn *sql.DB, runID string, batchSize int, flushInterval time.Duration) *ResultSink {
	return &ResultSink{RunID: runID, bw: NewBatchWriter(conn, batchSize, flushInterval)}
}

// IngestPair queues a MATCH pair for the ingestion table.
func (s *ResultSink) IngestPair(ctx context.Context, p resolve.ClassifiedPair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return InsertIngestPair(ctx, tx, s.RunID, p)
	})
}

// IngestRecord queues an unconflicted record for the ingestion table.
func (s *ResultSink) IngestRecord(ctx context.Context, r identity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return InsertIngestRecord(ctx, tx, s.RunID, r)
	})
}

// LogPair queues a pair for the inconsistency log.
func (s *ResultSink) LogPair(ctx context.Context, p resolve.ClassifiedPair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return InsertLogEntry(ctx, tx, s.RunID, p)
	})
}

// Written returns the number of rows committed so far.
func (s *ResultSink) Written() int {
	return s.bw.Committed()
}

// Close commits pending rows and returns the first write error.
func (s *ResultSink) Close() error {
	return s.bw.Close()
}
