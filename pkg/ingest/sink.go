package ingest

import (
	"context"
	"sync"

	"github.com/japaniel/sigdedup/pkg/identity"
	"github.com/japaniel/sigdedup/pkg/resolve"
)

// Source supplies the records of one run.
type Source interface {
	LoadRecords(ctx context.Context) ([]identity.Record, error)
}

// Sink receives routed output. Implementations must be safe to call from a single goroutine;
// the Ingester never writes concurrently.
type Sink interface {
	IngestPair(ctx context.Context, p resolve.ClassifiedPair) error
	IngestRecord(ctx context.Context, r identity.Record) error
	LogPair(ctx context.Context, p resolve.ClassifiedPair) error
	Close() error
}

// SliceSource serves a fixed slice of records.
type SliceSource []identity.Record

// LoadRecords returns a copy so fingerprinting does not mutate the caller's slice.
func (s SliceSource) LoadRecords(ctx context.Context) ([]identity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]identity.Record, len(s))
	copy(out, s)
	return out, nil
}

// MemorySink collects routed output in memory.
type MemorySink struct {
	mu      sync.Mutex
	Pairs   []resolve.ClassifiedPair
	Records []identity.Record
	Log     []resolve.ClassifiedPair
	Closed  bool
}

func (m *MemorySink) IngestPair(ctx context.Context, p resolve.ClassifiedPair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pairs = append(m.Pairs, p)
	return nil
}

func (m *MemorySink) IngestRecord(ctx context.Context, r identity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, r)
	return nil
}

func (m *MemorySink) LogPair(ctx context.Context, p resolve.ClassifiedPair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log = append(m.Log, p)
	return nil
}

func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
