package bramble

import (
	"github.com/FranksOps/bramble/internal/discovery"
	"github.com/FranksOps/bramble/internal/serp"
)

// RelatedQuestionParseError reports that related-question extraction
// failed for a query. It carries the question that was being looked up
// and aborts the enclosing call; match it with errors.As.
type RelatedQuestionParseError = discovery.RelatedQuestionParseError

// FeaturedSnippetParseError reports that an answer box was present but
// could not be normalized. It aborts the Answer call it occurred in;
// match it with errors.As.
type FeaturedSnippetParseError = discovery.FeaturedSnippetParseError

// BlockedError reports that the search backend served a challenge or
// block page instead of results. Transport errors are returned as-is;
// this type marks the backend actively refusing the query.
type BlockedError = serp.BlockedError
