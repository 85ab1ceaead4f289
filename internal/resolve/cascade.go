package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/ico-resolver/internal/model"
	"github.com/rickgao/ico-resolver/internal/textmatch"
)

// State is the terminal state of one query's trip through the cascade.
type State int

const (
	StatePending State = iota
	StateResolved
	StateUnresolved
	StateMissingSymbol
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateUnresolved:
		return "unresolved"
	case StateMissingSymbol:
		return "missing_symbol"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Attempt records one resolver invocation.
type Attempt struct {
	Source string
	Result model.Result
}

// Outcome is the cascade's verdict for one query.
type Outcome struct {
	State    State
	Source   string       // Resolver that matched (StateResolved only)
	Result   model.Result // Winning result (StateResolved only)
	Attempts []Attempt    // Invocations in priority order
}

// Cascade consults resolvers in a fixed priority order.
// It is safe for concurrent use when every resolver is.
type Cascade struct {
	resolvers []Resolver
	logger    *slog.Logger
	recorder  Recorder
}

// CascadeOption configures a Cascade.
type CascadeOption func(*Cascade)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) CascadeOption {
	return func(c *Cascade) {
		c.recorder = r
	}
}

// NewCascade creates a cascade over resolvers, highest priority first.
func NewCascade(resolvers []Resolver, logger *slog.Logger, opts ...CascadeOption) *Cascade {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cascade{
		resolvers: resolvers,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources returns the resolver source names in priority order.
func (c *Cascade) Sources() []string {
	out := make([]string, len(c.resolvers))
	for i, r := range c.resolvers {
		out[i] = r.Source()
	}
	return out
}

// Availability returns, per resolver in priority order, the label to report
// for an unresolved token: the resolver's skip label when it is disabled,
// otherwise "False".
func (c *Cascade) Availability() []string {
	out := make([]string, len(c.resolvers))
	for i, r := range c.resolvers {
		out[i] = "False"
		if sr, ok := r.(SkipReporter); ok {
			if label, skipped := sr.SkipLabel(); skipped {
				out[i] = label
			}
		}
	}
	return out
}

// Resolve runs q through the cascade.
//
// A query whose symbol normalizes to empty ends in StateMissingSymbol without
// consulting any resolver. Otherwise resolvers run strictly in order and the
// first found result ends the walk. The returned error is fatal: either a
// resolver reported one, or ctx was cancelled.
func (c *Cascade) Resolve(ctx context.Context, q model.TokenQuery) (Outcome, error) {
	if textmatch.Normalize(q.Symbol) == "" {
		return Outcome{State: StateMissingSymbol}, nil
	}

	out := Outcome{State: StatePending}
	for _, r := range c.resolvers {
		start := time.Now()
		res, err := r.Find(ctx, q)
		if err != nil {
			return out, fmt.Errorf("%s: %w", r.Source(), err)
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if c.recorder != nil {
			c.recorder.ObserveLookup(r.Source(), res.Status, time.Since(start).Seconds())
		}
		out.Attempts = append(out.Attempts, Attempt{Source: r.Source(), Result: res})

		switch res.Status {
		case model.StatusFound:
			out.State = StateResolved
			out.Source = r.Source()
			out.Result = res
			return out, nil
		case model.StatusError:
			c.logger.Warn("lookup failed",
				"source", r.Source(),
				"symbol", q.Symbol,
				"name", q.Name,
				"error", res.Err,
			)
		case model.StatusNotFound:
			if res.Detail != "" {
				c.logger.Debug("lookup missed",
					"source", r.Source(),
					"symbol", q.Symbol,
					"detail", res.Detail,
				)
			}
		}
	}

	out.State = StateUnresolved
	return out, nil
}
