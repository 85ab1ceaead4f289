// Package runner drives every input row through the resolution cascade and
// collects the rows that end up unresolved.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/ico-resolver/internal/dataset"
	"github.com/rickgao/ico-resolver/internal/model"
	"github.com/rickgao/ico-resolver/internal/report"
	"github.com/rickgao/ico-resolver/internal/resolve"
)

// TokenRecorder receives each token's final state.
type TokenRecorder interface {
	ObserveToken(dataset, state string)
}

// Summary counts tokens by final state.
type Summary struct {
	Total         int
	Resolved      int
	Unresolved    int
	MissingSymbol int
}

func (s *Summary) add(o Summary) {
	s.Total += o.Total
	s.Resolved += o.Resolved
	s.Unresolved += o.Unresolved
	s.MissingSymbol += o.MissingSymbol
}

// Runner resolves token queries and records the unresolved ones.
type Runner struct {
	cascade  *resolve.Cascade
	workers  int
	logger   *slog.Logger
	recorder TokenRecorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets how many tokens are resolved concurrently. Values below
// one are treated as one.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithTokenRecorder attaches a recorder for final token states.
func WithTokenRecorder(rec TokenRecorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// New creates a runner over cascade.
func New(cascade *resolve.Cascade, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		cascade: cascade,
		workers: 1,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunTables runs every table in order into rep.
func (r *Runner) RunTables(ctx context.Context, rep *report.Report, tables []*dataset.Table) (Summary, error) {
	var total Summary
	for _, t := range tables {
		r.logger.Info("processing dataset",
			"dataset", t.Name,
			"rows", t.Len(),
			"symbol_column", t.Columns.Symbol,
			"name_column", t.Columns.Name,
		)

		s, err := r.Run(ctx, rep, t.Queries())
		total.add(s)
		if err != nil {
			return total, fmt.Errorf("dataset %s: %w", t.Name, err)
		}
	}
	return total, nil
}

// Run resolves queries and appends one record to rep for each query that
// has no symbol or matched no source. Records keep input order regardless
// of the worker count. The first fatal error cancels outstanding work.
func (r *Runner) Run(ctx context.Context, rep *report.Report, queries []model.TokenQuery) (Summary, error) {
	outcomes := make([]resolve.Outcome, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, q := range queries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := r.cascade.Resolve(gctx, q)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", q, err)
			}
			outcomes[i] = out
			r.logOutcome(q, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	s := Summary{Total: len(queries)}
	for i, q := range queries {
		out := outcomes[i]
		if r.recorder != nil {
			r.recorder.ObserveToken(q.Dataset, out.State.String())
		}

		var flags []string
		var note model.Note
		switch out.State {
		case resolve.StateResolved:
			s.Resolved++
			continue
		case resolve.StateMissingSymbol:
			s.MissingSymbol++
			flags, note = report.AllFalse(len(rep.Sources)), model.NoteMissingSymbol
		default:
			s.Unresolved++
			flags, note = r.cascade.Availability(), model.NoteNotFoundAnywhere
		}

		if err := rep.Add(report.Record{
			Dataset:  q.Dataset,
			RowIndex: q.RowIndex,
			Symbol:   q.Symbol,
			Name:     q.Name,
			Flags:    flags,
			Note:     note,
		}); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (r *Runner) logOutcome(q model.TokenQuery, out resolve.Outcome) {
	switch out.State {
	case resolve.StateResolved:
		r.logger.Info("token resolved",
			"dataset", q.Dataset,
			"row", q.RowIndex,
			"symbol", q.Symbol,
			"source", out.Source,
			"method", out.Result.Method,
			"match_id", out.Result.Match.ID,
		)
	case resolve.StateMissingSymbol:
		r.logger.Info("token missing symbol",
			"dataset", q.Dataset,
			"row", q.RowIndex,
			"name", q.Name,
		)
	default:
		r.logger.Info("token not found anywhere",
			"dataset", q.Dataset,
			"row", q.RowIndex,
			"symbol", q.Symbol,
			"name", q.Name,
		)
	}
}
