package serp

import (
	"context"

	"github.com/FranksOps/bramble/internal/discovery"
	"github.com/FranksOps/bramble/internal/metrics"
)

// Source adapts a Client into the discovery engine's backend
// interface. Extraction counters are recorded here, where pages flow
// into the engine, so every consumer of the engine reports the same
// numbers.
type Source struct {
	client Client
}

// NewSource wraps a search client for use as a discovery backend.
func NewSource(client Client) *Source {
	return &Source{client: client}
}

var _ discovery.Source = (*Source)(nil)

func (s *Source) Lookup(ctx context.Context, question, locale string) (discovery.Result, error) {
	page, err := s.client.Search(ctx, question, locale)
	if err != nil {
		return nil, err
	}
	return pageResult{page: page}, nil
}

type pageResult struct {
	page *Page
}

func (r pageResult) RelatedQuestions() ([]string, error) {
	questions, err := r.page.RelatedQuestions()
	if err != nil {
		return nil, err
	}
	metrics.RecordQuestions(len(questions))
	return questions, nil
}

func (r pageResult) FeaturedSnippet() (discovery.Snippet, bool) {
	snip, ok := r.page.FeaturedSnippet()
	if !ok {
		return nil, false
	}
	metrics.RecordAnswer()
	return snippetView{snip: snip}, true
}

// snippetView bridges the parsed snippet struct to the engine's
// accessor interface.
type snippetView struct {
	snip *Snippet
}

func (v snippetView) Response() string { return v.snip.Response }

func (v snippetView) Fields() (map[string]string, error) { return v.snip.Fields() }
