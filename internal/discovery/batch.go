package discovery

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CollectMany runs Collect for several seeds concurrently, bounded by
// workers. Each seed gets its own traversal run; the runs share nothing
// but the source. The first failing seed cancels the rest.
func (e *Engine) CollectMany(ctx context.Context, seeds []string, locale string, max, workers int) (map[string][]string, error) {
	if workers <= 0 {
		workers = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	out := make(map[string][]string, len(seeds))

	for _, seed := range seeds {
		seed := seed
		g.Go(func() error {
			questions, err := e.Collect(ctx, seed, locale, max)
			if err != nil {
				return fmt.Errorf("collect %q: %w", seed, err)
			}
			mu.Lock()
			out[seed] = questions
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
