package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by PostgresSink.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresSink appends the report to a PostgreSQL table in one batch.
type PostgresSink struct {
	db    DB
	table string
}

// NewPostgresSink creates a Postgres sink writing to table.
func NewPostgresSink(db DB, table string) (*PostgresSink, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}
	return &PostgresSink{db: db, table: table}, nil
}

func (s *PostgresSink) Name() string { return "postgres" }

// EnsureTable creates the report table if it does not exist.
func (s *PostgresSink) EnsureTable(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id         UUID        NOT NULL,
			source_dataset TEXT        NOT NULL,
			row_index      INTEGER     NOT NULL,
			symbol         TEXT        NOT NULL,
			name           TEXT        NOT NULL,
			found_flags    JSONB       NOT NULL,
			note           TEXT        NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, source_dataset, row_index)
		)`, s.ident()))
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *PostgresSink) Write(ctx context.Context, rep *Report) error {
	if err := s.EnsureTable(ctx); err != nil {
		return err
	}
	if rep.Len() == 0 {
		return nil
	}

	batch, err := s.buildInsertBatch(rep, time.Now().UTC())
	if err != nil {
		return err
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, rec := range rep.Records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert %s[%d]: %w", rec.Dataset, rec.RowIndex, err)
		}
	}
	return nil
}

// buildInsertBatch queues one insert per record. Reruns with the same run ID
// are ignored.
func (s *PostgresSink) buildInsertBatch(rep *Report, now time.Time) (*pgx.Batch, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, source_dataset, row_index, symbol, name, found_flags, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id, source_dataset, row_index) DO NOTHING
	`, s.ident())

	batch := &pgx.Batch{}
	for _, rec := range rep.Records {
		flags, err := flagsJSON(rep.Sources, rec.Flags)
		if err != nil {
			return nil, err
		}
		batch.Queue(query, rep.RunID, rec.Dataset, rec.RowIndex, rec.Symbol, rec.Name, string(flags), string(rec.Note), now)
	}
	return batch, nil
}

func (s *PostgresSink) ident() string {
	return pgx.Identifier{s.table}.Sanitize()
}
