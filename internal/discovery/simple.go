package discovery

import "context"

// SimpleAnswer returns the short answer text for a question, or ""
// when no answer block exists. Only the snippet is read from the
// direct query, so a malformed related-questions block cannot fail
// this call.
//
// With fallback enabled and no direct answer, the question's first
// related suggestion is tried once; the recursive call always disables
// fallback, capping the search at one extra hop.
func (e *Engine) SimpleAnswer(ctx context.Context, question, locale string, fallback bool) (string, error) {
	e.logger.Debug("querying simple answer", "question", question, "locale", locale, "fallback", fallback)

	res, err := e.src.Lookup(ctx, question, locale)
	if err != nil {
		return "", err
	}

	if snip, ok := res.FeaturedSnippet(); ok {
		return snip.Response(), nil
	}

	if !fallback {
		return "", nil
	}

	related, err := e.Related(ctx, question, locale)
	if err != nil {
		return "", err
	}
	if len(related) == 0 {
		return "", nil
	}
	return e.SimpleAnswer(ctx, related[0], locale, false)
}
