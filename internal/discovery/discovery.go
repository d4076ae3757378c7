// Package discovery implements the related-question traversal engine:
// starting from a seed question it follows the search backend's own
// suggestions outward, producing a deduplicated stream of questions and
// answers. The engine is pull-driven; no request is made until the
// consumer asks for the next item.
package discovery

import (
	"context"
	"log/slog"
)

// NoLimit disables the collection bound. Collect then performs a single
// direct query instead of a traversal.
const NoLimit = -1

// Source is the search backend: one Lookup is one query round trip
// returning the parsed results page. The locale is opaque to the
// engine and handed through to the backend untouched.
type Source interface {
	Lookup(ctx context.Context, question, locale string) (Result, error)
}

// Result is a parsed results page for one query.
type Result interface {
	// RelatedQuestions returns the question suggestions found on the
	// page, in document order, deduplicated. An empty page yields an
	// empty slice and no error.
	RelatedQuestions() ([]string, error)
	// FeaturedSnippet returns the answer block when the page has one.
	FeaturedSnippet() (Snippet, bool)
}

// Snippet is a featured answer block.
type Snippet interface {
	// Response is the short textual answer.
	Response() string
	// Fields normalizes the block into a flat field map. It fails on
	// malformed structure.
	Fields() (map[string]string, error)
}

// Record is the normalized answer for a single question. Fields is only
// populated when HasAnswer is true.
type Record struct {
	Question  string            `json:"question"`
	HasAnswer bool              `json:"has_answer"`
	Related   []string          `json:"related_questions"`
	Answer    string            `json:"answer,omitempty"`
	Fields    map[string]string `json:"snippet_fields,omitempty"`
}

// Engine drives traversals against a Source. Engines are stateless
// across calls; every traversal owns its frontier and visited set
// exclusively.
type Engine struct {
	src    Source
	logger *slog.Logger
}

// New creates an Engine backed by the given source.
func New(src Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{src: src, logger: logger}
}

// Related performs a single-hop query: the related questions found
// directly on the question's results page. Extraction failures come
// back as a RelatedQuestionParseError naming the question; transport
// failures from the source pass through untouched.
func (e *Engine) Related(ctx context.Context, question, locale string) ([]string, error) {
	e.logger.Debug("querying related questions", "question", question, "locale", locale)

	res, err := e.src.Lookup(ctx, question, locale)
	if err != nil {
		return nil, err
	}

	related, err := res.RelatedQuestions()
	if err != nil {
		return nil, &RelatedQuestionParseError{Question: question, Err: err}
	}
	return related, nil
}
