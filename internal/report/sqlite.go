package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSink appends the report to a table in a SQLite file, creating both
// on first use.
type SQLiteSink struct {
	path  string
	table string
}

// NewSQLiteSink creates a SQLite sink.
func NewSQLiteSink(path, table string) (*SQLiteSink, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}
	return &SQLiteSink{path: path, table: table}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

func (s *SQLiteSink) Write(ctx context.Context, rep *Report) error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		run_id TEXT NOT NULL,
		source_dataset TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		found_flags TEXT NOT NULL,
		note TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`, s.table)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %q (run_id, source_dataset, row_index, symbol, name, found_flags, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	runID := rep.RunID.String()
	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range rep.Records {
		flags, err := flagsJSON(rep.Sources, rec.Flags)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, rec.Dataset, rec.RowIndex, rec.Symbol, rec.Name, string(flags), string(rec.Note), now); err != nil {
			return fmt.Errorf("insert %s[%d]: %w", rec.Dataset, rec.RowIndex, err)
		}
	}

	return tx.Commit()
}
