package discovery

import "fmt"

// RelatedQuestionParseError reports that related-question extraction
// failed for a query. It aborts the enclosing traversal or collection
// call; nothing is retried.
type RelatedQuestionParseError struct {
	Question string
	Err      error
}

func (e *RelatedQuestionParseError) Error() string {
	return fmt.Sprintf("parse related questions for %q: %v", e.Question, e.Err)
}

func (e *RelatedQuestionParseError) Unwrap() error { return e.Err }

// FeaturedSnippetParseError reports that an answer block was present
// but could not be normalized into fields. It aborts the single answer
// call it occurred in.
type FeaturedSnippetParseError struct {
	Question string
	Err      error
}

func (e *FeaturedSnippetParseError) Error() string {
	return fmt.Sprintf("parse featured snippet for %q: %v", e.Question, e.Err)
}

func (e *FeaturedSnippetParseError) Unwrap() error { return e.Err }
