package discovery

import "context"

// AnswerFor builds the answer record for a single question from one
// query round trip. Related questions are extracted regardless of
// whether the page carries an answer block; a page without a snippet
// produces HasAnswer=false with no fields. A snippet that is present
// but malformed aborts the call with a FeaturedSnippetParseError
// rather than degrading to HasAnswer=false.
func (e *Engine) AnswerFor(ctx context.Context, question, locale string) (*Record, error) {
	e.logger.Debug("querying answer", "question", question, "locale", locale)

	res, err := e.src.Lookup(ctx, question, locale)
	if err != nil {
		return nil, err
	}

	related, err := res.RelatedQuestions()
	if err != nil {
		return nil, &RelatedQuestionParseError{Question: question, Err: err}
	}

	rec := &Record{Question: question, Related: related}

	snip, ok := res.FeaturedSnippet()
	if !ok {
		return rec, nil
	}

	fields, err := snip.Fields()
	if err != nil {
		return nil, &FeaturedSnippetParseError{Question: question, Err: err}
	}

	rec.HasAnswer = true
	rec.Answer = snip.Response()
	rec.Fields = fields
	return rec, nil
}

// AnswerTraversal is a lazy stream of answer records for the questions
// reachable from a seed. Only questions whose page carries an answer
// block are emitted; the rest still expand the frontier. The seed's own
// record is emitted first when it has an answer.
type AnswerTraversal struct {
	ctx    context.Context
	engine *Engine
	seed   string
	locale string

	started bool
	done    bool
	err     error
	current *Record

	queue   []string
	queued  map[string]struct{}
	visited map[string]struct{}
}

// TraverseAnswers starts a fresh answer traversal from seed. One round
// trip serves both the record and the frontier expansion for each
// question pulled.
func (e *Engine) TraverseAnswers(ctx context.Context, seed, locale string) *AnswerTraversal {
	return &AnswerTraversal{
		ctx:     ctx,
		engine:  e,
		seed:    seed,
		locale:  locale,
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Next advances to the next answered question. Questions without
// answers are expanded and skipped within the same call.
func (t *AnswerTraversal) Next() bool {
	if t.done || t.err != nil {
		return false
	}

	if !t.started {
		t.started = true
		if t.step(t.seed) {
			return true
		}
		if t.err != nil {
			return false
		}
	}

	for len(t.queue) > 0 {
		if t.step(t.pop()) {
			return true
		}
		if t.err != nil {
			return false
		}
	}

	t.done = true
	return false
}

// step queries one question, merges its related questions into the
// frontier, and reports whether a record was emitted.
func (t *AnswerTraversal) step(question string) bool {
	t.visited[question] = struct{}{}

	rec, err := t.engine.AnswerFor(t.ctx, question, t.locale)
	if err != nil {
		t.err = err
		return false
	}

	t.push(rec.Related)

	if !rec.HasAnswer {
		return false
	}
	t.current = rec
	return true
}

// Record returns the record produced by the last successful Next.
func (t *AnswerTraversal) Record() *Record { return t.current }

// Err returns the error that stopped the traversal, if any.
func (t *AnswerTraversal) Err() error { return t.err }

func (t *AnswerTraversal) push(related []string) {
	for _, q := range related {
		if _, seen := t.visited[q]; seen {
			continue
		}
		if _, pending := t.queued[q]; pending {
			continue
		}
		t.queue = append(t.queue, q)
		t.queued[q] = struct{}{}
	}
}

func (t *AnswerTraversal) pop() string {
	q := t.queue[0]
	t.queue = t.queue[1:]
	delete(t.queued, q)
	return q
}
