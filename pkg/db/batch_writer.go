package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// WriteFunc performs database writes inside a batch transaction. tx is nil
// when the writer has no database (tests).
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter buffers WriteFuncs and commits each full buffer in one
// transaction on a background committer. A failing WriteFunc rolls back its
// whole batch; the first such error is kept and returned by Close.
type BatchWriter struct {
	db        *sql.DB
	batchSize int

	mu     sync.Mutex
	buf    []WriteFunc
	closed bool

	batches chan []WriteFunc
	ticker  *time.Ticker
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// OnError is called for every failed or dropped batch.
	OnError func(error)

	errMu     sync.Mutex
	firstErr  error
	committed int
}

// NewBatchWriter starts a writer that commits every batchSize submissions
// and, when flushInterval > 0, whatever is buffered on each tick.
func NewBatchWriter(db *sql.DB, batchSize int, flushInterval time.Duration) *BatchWriter {
	if batchSize <= 0 {
		batchSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	bw := &BatchWriter{
		db:        db,
		batchSize: batchSize,
		buf:       make([]WriteFunc, 0, batchSize),
		batches:   make(chan []WriteFunc, 2),
		ctx:       ctx,
		cancel:    cancel,
	}

	bw.wg.Add(1)
	go bw.commitLoop()

	if flushInterval > 0 {
		bw.ticker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.tickLoop()
	}
	return bw
}

// Submit buffers w. A full buffer is handed to the committer, which blocks
// the caller while the committer is behind.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.batchSize {
		bw.handOffLocked()
	}
	return nil
}

// Flush hands the current buffer to the committer without waiting for the commit.
func (bw *BatchWriter) Flush() {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if !bw.closed {
		bw.handOffLocked()
	}
}

// handOffLocked requires bw.mu.
func (bw *BatchWriter) handOffLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.batchSize)
	select {
	case bw.batches <- batch:
	case <-bw.ctx.Done():
		bw.fail(fmt.Errorf("batch writer: dropping batch of %d items due to context cancellation", len(batch)))
	}
}

func (bw *BatchWriter) fail(err error) {
	bw.errMu.Lock()
	if bw.firstErr == nil {
		bw.firstErr = err
	}
	bw.errMu.Unlock()
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) commitLoop() {
	defer bw.wg.Done()
	for batch := range bw.batches {
		if err := bw.commit(batch); err != nil {
			bw.fail(err)
			continue
		}
		bw.errMu.Lock()
		bw.committed += len(batch)
		bw.errMu.Unlock()
	}
}

func (bw *BatchWriter) commit(batch []WriteFunc) error {
	if bw.db == nil {
		for _, w := range batch {
			if err := w(bw.ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	// Pending batches still commit while Close cancels bw.ctx.
	ctx := context.Background()
	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) tickLoop() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.ctx.Done():
			return
		case <-bw.ticker.C:
			bw.Flush()
		}
	}
}

// Committed returns how many WriteFuncs have been committed so far.
func (bw *BatchWriter) Committed() int {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.committed
}

// Close flushes the buffer, waits for every pending batch and returns the
// first error seen by the writer.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.handOffLocked()
	bw.closed = true
	if bw.ticker != nil {
		bw.ticker.Stop()
	}
	bw.mu.Unlock()

	bw.cancel()
	close(bw.batches)
	bw.wg.Wait()

	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.firstErr
}

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

// BatchWriterError is the typed error of BatchWriter lifecycle failures.
type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
