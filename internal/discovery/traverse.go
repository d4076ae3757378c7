package discovery

import "context"

// Traversal is a lazy stream of discovered questions. Use it like a
// scanner:
//
//	tr := engine.Traverse(ctx, "why is the sky blue", "us")
//	for tr.Next() {
//		fmt.Println(tr.Question())
//	}
//	if err := tr.Err(); err != nil { ... }
//
// Each Next that expands the frontier costs one backend round trip, so
// abandoning the traversal early stops all further network activity.
// The stream never repeats a question and never contains the seed.
type Traversal struct {
	ctx    context.Context
	engine *Engine
	seed   string
	locale string

	started bool
	done    bool
	err     error
	current string

	// frontier: discovery-ordered queue plus membership index
	queue   []string
	queued  map[string]struct{}
	visited map[string]struct{}
}

// Traverse starts a fresh traversal run from seed. Runs are not
// resumable; each call builds its own frontier and visited set.
func (e *Engine) Traverse(ctx context.Context, seed, locale string) *Traversal {
	return &Traversal{
		ctx:     ctx,
		engine:  e,
		seed:    seed,
		locale:  locale,
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Next advances the stream. It returns false when the frontier is
// exhausted or a step failed; check Err to tell the two apart.
func (t *Traversal) Next() bool {
	if t.done || t.err != nil {
		return false
	}

	// The question handed out by the previous Next is expanded here,
	// not at emission time: the consumer controls when the next round
	// trip happens.
	origin := t.current
	if !t.started {
		t.started = true
		origin = t.seed
	}

	t.visited[origin] = struct{}{}
	related, err := t.engine.Related(t.ctx, origin, t.locale)
	if err != nil {
		t.err = err
		return false
	}
	t.push(related)

	if len(t.queue) == 0 {
		t.done = true
		return false
	}
	t.current = t.pop()
	return true
}

// Question returns the question produced by the last successful Next.
func (t *Traversal) Question() string { return t.current }

// Err returns the error that stopped the traversal, if any.
func (t *Traversal) Err() error { return t.err }

func (t *Traversal) push(related []string) {
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

func (t *Traversal) pop() string {
	q := t.queue[0]
	t.queue = t.queue[1:]
	delete(t.queued, q)
	return q
}
