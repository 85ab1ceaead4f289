// Package resolve runs token queries through an ordered list of catalog
// resolvers and stops at the first match.
package resolve

import (
	"context"
	"fmt"

	"github.com/rickgao/ico-resolver/internal/api"
	"github.com/rickgao/ico-resolver/internal/model"
)

// Resolver looks a token up in one external catalog.
//
// Find returns a non-nil error only for failures that must abort the whole
// run, such as a mandatory catalog that cannot be loaded. Recoverable
// failures are reported as a model.Result with StatusError.
type Resolver interface {
	Source() string
	Find(ctx context.Context, q model.TokenQuery) (model.Result, error)
}

// SkipReporter is implemented by resolvers that are switched off when their
// credentials are not configured. SkipLabel returns the label to report in
// place of "False" and whether the resolver is disabled.
type SkipReporter interface {
	SkipLabel() (string, bool)
}

// Recorder receives one observation per resolver invocation.
type Recorder interface {
	ObserveLookup(source string, status model.Status, seconds float64)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc struct {
	Name string
	Fn   func(ctx context.Context, q model.TokenQuery) (model.Result, error)
}

func (f ResolverFunc) Source() string { return f.Name }

func (f ResolverFunc) Find(ctx context.Context, q model.TokenQuery) (model.Result, error) {
	return f.Fn(ctx, q)
}

// ResultFromError classifies a failed upstream call. A definitive 4xx answer
// (other than 429) is a clean miss; anything else is a transient error.
func ResultFromError(err error) model.Result {
	if code := api.StatusCode(err); code != 0 && api.IsNotFound(err) {
		return model.MissWithDetail(fmt.Sprintf("http_%d", code))
	}
	return model.Fail(err)
}
