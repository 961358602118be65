package db

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/japaniel/sigdedup/pkg/identity"
)

// CSVColumns is the header expected by ImportCSV, in any order.
var CSVColumns = []string{"id", "cpf", "nome", "data_nasc", "nome_mae", "sexo"}

// ImportCSV loads records from a headed CSV stream into the records table
// inside one transaction. An empty cpf cell is stored as NULL.
func ImportCSV(ctx context.Context, conn *sql.DB, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range CSVColumns {
		if _, ok := pos[col]; !ok {
			return 0, fmt.Errorf("csv header missing column %q", col)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	n := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", n+2, err)
		}
		rec, err := parseCSVRecord(row, pos)
		if err != nil {
			return 0, fmt.Errorf("csv line %d: %w", n+2, err)
		}
		if err := InsertRecord(ctx, tx, rec); err != nil {
			return 0, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

func parseCSVRecord(row []string, pos map[string]int) (identity.Record, error) {
	cell := func(col string) string {
		i := pos[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}
	id, err := strconv.ParseInt(strings.TrimSpace(cell("id")), 10, 64)
	if err != nil {
		return identity.Record{}, fmt.Errorf("invalid id %q: %w", cell("id"), err)
	}
	rec := identity.Record{
		ID:         id,
		Name:       cell("nome"),
		BirthToken: cell("data_nasc"),
		MotherName: cell("nome_mae"),
		Sex:        cell("sexo"),
	}
	if key := strings.TrimSpace(cell("cpf")); key != "" {
		rec.Key = identity.Key(key)
	}
	return rec, nil
}
