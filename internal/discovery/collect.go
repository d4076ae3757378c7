package discovery

import "context"

// Collect gathers related questions for a seed.
//
// With max set to NoLimit it performs exactly one direct query and
// returns the seed's own suggestions without expanding further. With
// max >= 0 it drives a traversal and stops once strictly more than max
// questions have been gathered; the bound is checked before each
// insertion, so an ample supply yields exactly max+1 questions.
func (e *Engine) Collect(ctx context.Context, seed, locale string, max int) ([]string, error) {
	if max < 0 {
		return e.Related(ctx, seed, locale)
	}

	tr := e.Traverse(ctx, seed, locale)
	var out []string
	for tr.Next() {
		if len(out) > max {
			break
		}
		out = append(out, tr.Question())
	}
	if err := tr.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
