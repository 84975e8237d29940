package validate

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ValidateAll validates inputs concurrently with at most workers goroutines
// (GOMAXPROCS when workers <= 0). Results are returned in input order. The
// only error is the context's, when it is cancelled before all inputs were
// processed.
func (v *Validator) ValidateAll(ctx context.Context, inputs []any, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = v.ValidateDocument(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
