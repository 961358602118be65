package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/japaniel/sigdedup/pkg/identity"
	"github.com/japaniel/sigdedup/pkg/resolve"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrRunNotFound is returned when a run id has no bookkeeping row.
var ErrRunNotFound = errors.New("run not found")

// InsertRecord writes or replaces one source record.
func InsertRecord(ctx context.Context, db DBExecutor, r identity.Record) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO records (id, cpf, nome, data_nasc, nome_mae, sexo) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Key, r.Name, r.BirthToken, r.MotherName, r.Sex)
	if err != nil {
		return fmt.Errorf("insert record %d: %w", r.ID, err)
	}
	return nil
}

// LoadRecords reads every source record ordered by id. NULL name-like
// columns load as empty strings; a NULL cpf stays an invalid key.
func LoadRecords(ctx context.Context, db DBExecutor) ([]identity.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, cpf, nome, data_nasc, nome_mae, sexo FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []identity.Record
	for rows.Next() {
		var r identity.Record
		var name, birth, mother, sex sql.NullString
		if err := rows.Scan(&r.ID, &r.Key, &name, &birth, &mother, &sex); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Name = name.String
		r.BirthToken = birth.String
		r.MotherName = mother.String
		r.Sex = sex.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountRecords returns the number of source records.
func CountRecords(ctx context.Context, db DBExecutor) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateRun inserts the bookkeeping row for a run that is starting.
func CreateRun(ctx context.Context, db DBExecutor, id string, startedAt time.Time) error {
	if id == "" {
		return fmt.Errorf("run id must be non-empty")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO runs (id, started_at) VALUES (?, ?)`, id, startedAt.UTC())
	if err != nil {
		return fmt.Errorf("create run %s: %w", id, err)
	}
	return nil
}

// FinishRun stores the final counters of a run.
func FinishRun(ctx context.Context, db DBExecutor, run Run) error {
	res, err := db.ExecContext(ctx, `UPDATE runs SET
		finished_at = ?, records = ?, key_groups = ?, pairs = ?, ingested_pairs = ?,
		ingested_records = ?, logged = ?, review = ?, exact_duplicate_keys = ?
		WHERE id = ?`,
		run.FinishedAt.UTC(), run.Records, run.Groups, run.Pairs, run.IngestedPairs,
		run.IngestedRecords, run.Logged, run.Review, run.ExactDuplicateKeys, run.ID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", run.ID, ErrRunNotFound)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, records, key_groups, pairs, ingested_pairs,
	ingested_records, logged, review, exact_duplicate_keys`

// GetRun returns the run with the given id.
func GetRun(ctx context.Context, db DBExecutor, id string) (Run, error) {
	return scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
}

// LatestRun returns the most recently started run.
func LatestRun(ctx context.Context, db DBExecutor) (Run, error) {
	return scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`))
}

func scanRun(row *sql.Row) (Run, error) {
	var r Run
	var finished sql.NullTime
	err := row.Scan(&r.ID, &r.StartedAt, &finished, &r.Records, &r.Groups, &r.Pairs,
		&r.IngestedPairs, &r.IngestedRecords, &r.Logged, &r.Review, &r.ExactDuplicateKeys)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	return r, nil
}

// InsertIngestPair writes a MATCH pair to the ingestion table.
func InsertIngestPair(ctx context.Context, db DBExecutor, runID string, p resolve.ClassifiedPair) error {
	return insertPair(ctx, db, "ingest_pairs", runID, p)
}

// InsertLogEntry writes a pair to the inconsistency log.
func InsertLogEntry(ctx context.Context, db DBExecutor, runID string, p resolve.ClassifiedPair) error {
	return insertPair(ctx, db, "inconsistency_log", runID, p)
}

func insertPair(ctx context.Context, db DBExecutor, table, runID string, p resolve.ClassifiedPair) error {
	_, err := db.ExecContext(ctx, `INSERT INTO `+table+` (run_id, id_a, id_b, cpf, score, status, status_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, p.A.ID, p.B.ID, p.A.Key, p.Composite, p.Status.String(), p.Status.Code())
	if err != nil {
		return fmt.Errorf("insert %s pair (%d,%d): %w", table, p.A.ID, p.B.ID, err)
	}
	return nil
}

// InsertIngestRecord writes an unconflicted record with its full payload.
func InsertIngestRecord(ctx context.Context, db DBExecutor, runID string, r identity.Record) error {
	_, err := db.ExecContext(ctx, `INSERT INTO ingest_records
		(run_id, id, cpf, nome, data_nasc, nome_mae, sexo, fingerprint) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.ID, r.Key, r.Name, r.BirthToken, r.MotherName, r.Sex, r.Fingerprint)
	if err != nil {
		return fmt.Errorf("insert ingest record %d: %w", r.ID, err)
	}
	return nil
}

// LoadIngestRecords reads the records ingested by a run, ordered by id.
func LoadIngestRecords(ctx context.Context, db DBExecutor, runID string) ([]identity.Record, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, cpf, nome, data_nasc, nome_mae, sexo, fingerprint
		FROM ingest_records WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []identity.Record
	for rows.Next() {
		var r identity.Record
		var name, birth, mother, sex sql.NullString
		if err := rows.Scan(&r.ID, &r.Key, &name, &birth, &mother, &sex, &r.Fingerprint); err != nil {
			return nil, err
		}
		r.Name, r.BirthToken, r.MotherName, r.Sex = name.String, birth.String, mother.String, sex.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// StatusCounts returns pair counts per table and status for a run.
func StatusCounts(ctx context.Context, db DBExecutor, runID string) ([]StatusCount, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT 'ingest_pairs', status, status_code, COUNT(*) FROM ingest_pairs WHERE run_id = ? GROUP BY status, status_code
		UNION ALL
		SELECT 'inconsistency_log', status, status_code, COUNT(*) FROM inconsistency_log WHERE run_id = ? GROUP BY status, status_code
		ORDER BY 1, 2`, runID, runID)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()
	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Table, &c.Status, &c.StatusCode, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
