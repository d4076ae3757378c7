package serp

import (
	"context"
	"fmt"
)

// Client abstracts a search backend that can return the parsed results
// page for a query. The locale is passed through opaquely per call.
// Implementations may scrape, call official APIs, or replay fixtures.
type Client interface {
	Search(ctx context.Context, query, locale string) (*Page, error)
}

// BlockedError reports that the backend served a challenge or block
// page instead of results.
type BlockedError struct {
	Reason     string
	URL        string
	StatusCode int
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("search blocked (%s): status %d from %s", e.Reason, e.StatusCode, e.URL)
}
