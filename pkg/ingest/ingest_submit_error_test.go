package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/japaniel/sigdedup/pkg/identity"
)

// failingPool always returns an error on Submit to simulate producer error.
type failingPool struct{}

func (f *failingPool) Start(ctx context.Context) {}
func (f *failingPool) Submit(job Job) error      { return errors.New("submit failed") }
func (f *failingPool) SubmitCtx(ctx context.Context, job Job) error {
	return errors.New("submit failed")
}
func (f *failingPool) Close() {}

// erroringPool runs jobs inline and reports a job failure through Err.
type erroringPool struct{ err error }

func (p *erroringPool) Start(ctx context.Context) {}
func (p *erroringPool) Submit(job Job) error      { return p.SubmitCtx(context.Background(), job) }
func (p *erroringPool) SubmitCtx(ctx context.Context, job Job) error {
	if p.err == nil {
		p.err = errors.New("job failed")
	}
	return nil
}
func (p *erroringPool) Close()     {}
func (p *erroringPool) Err() error { return p.err }

func TestRunHandlesSubmitError(t *testing.T) {
	ingester := NewIngester(SliceSource(sampleRecords()), &MemorySink{})
	// Inject failing pool so first Submit() returns an error
	ingester.PoolFactory = func(workers, queue int) WorkerPoolInterface { return &failingPool{} }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ingester.Run(ctx); err == nil {
		t.Fatalf("expected submit error, got nil")
	}
}

func TestRunSurfacesJobError(t *testing.T) {
	sink := &MemorySink{}
	ingester := NewIngester(SliceSource(sampleRecords()), sink)
	ingester.PoolFactory = func(workers, queue int) WorkerPoolInterface { return &erroringPool{} }

	if _, err := ingester.Run(context.Background()); err == nil {
		t.Fatalf("expected job error, got nil")
	}
	if len(sink.Pairs)+len(sink.Records)+len(sink.Log) != 0 {
		t.Fatalf("nothing should be written after a failed resolve")
	}
}

func TestRunWithoutMultiRecordKeysSkipsPool(t *testing.T) {
	src := SliceSource{
		{ID: 1, Key: identity.Key("1"), Name: "A B"},
		{ID: 2, Key: identity.Key("2"), Name: "C D"},
	}
	ingester := NewIngester(src, &MemorySink{})
	ingester.PoolFactory = func(workers, queue int) WorkerPoolInterface { return &failingPool{} }
	report, err := ingester.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.IngestedRecords != 2 {
		t.Fatalf("expected 2 ingested records, got %d", report.IngestedRecords)
	}
}
