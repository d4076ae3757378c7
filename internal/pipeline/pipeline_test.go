package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/FranksOps/bramble/internal/discovery"
	"github.com/FranksOps/bramble/internal/serp"
	"github.com/FranksOps/bramble/internal/storage"
)

// stubSource implements discovery.Source over a fixed question graph.
type stubSource struct {
	mu        sync.Mutex
	graph     map[string][]string
	answers   map[string]string
	badFields map[string]bool
	fail      map[string]error
	failAfter int // when > 0, lookups beyond this many calls return blockErr
	blockErr  error
	calls     int
}

func (s *stubSource) Lookup(ctx context.Context, question, locale string) (discovery.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failAfter > 0 && s.calls > s.failAfter {
		return nil, s.blockErr
	}
	if err := s.fail[question]; err != nil {
		return nil, err
	}
	return stubResult{
		related:   s.graph[question],
		answer:    s.answers[question],
		badFields: s.badFields[question],
	}, nil
}

type stubResult struct {
	related   []string
	answer    string
	badFields bool
}

func (r stubResult) RelatedQuestions() ([]string, error) { return r.related, nil }

func (r stubResult) FeaturedSnippet() (discovery.Snippet, bool) {
	if r.answer == "" {
		return nil, false
	}
	return stubSnippet{response: r.answer, badFields: r.badFields}, true
}

type stubSnippet struct {
	response  string
	badFields bool
}

func (s stubSnippet) Response() string { return s.response }

func (s stubSnippet) Fields() (map[string]string, error) {
	if s.badFields {
		return nil, errors.New("snippet missing response text")
	}
	return map[string]string{"response": s.response}, nil
}

// engineClient drives the pipeline through a real engine, the same
// path the root client takes.
type engineClient struct {
	eng *discovery.Engine
}

func (c engineClient) CollectRelatedQuestions(ctx context.Context, text, locale string, max int) ([]string, error) {
	return c.eng.Collect(ctx, text, locale, max)
}

func (c engineClient) Answer(ctx context.Context, question, locale string) (*discovery.Record, error) {
	return c.eng.AnswerFor(ctx, question, locale)
}

// memoryBackend implements storage.Backend in memory.
type memoryBackend struct {
	mu       sync.Mutex
	records  []*storage.Record
	failSave bool
}

func (m *memoryBackend) Save(ctx context.Context, rec *storage.Record) error {
	if m.failSave {
		return errors.New("disk full")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, nil
}

func (m *memoryBackend) Close() error { return nil }

func TestNew_RequiresComponents(t *testing.T) {
	if _, err := New(Config{Backend: &memoryBackend{}}); err == nil {
		t.Fatal("expected error for nil client")
	}
	client := engineClient{discovery.New(&stubSource{}, nil)}
	if _, err := New(Config{Client: client}); err == nil {
		t.Fatal("expected error for nil backend")
	}
	if _, err := New(Config{Client: client, Backend: &memoryBackend{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPipeline_Run(t *testing.T) {
	src := &stubSource{
		graph: map[string][]string{
			"why is the sky blue": {"why are sunsets red", "how high is the sky"},
		},
		answers: map[string]string{
			"why is the sky blue": "Rayleigh scattering favors short wavelengths",
			"why are sunsets red": "longer wavelengths survive the longer path",
		},
	}
	backend := &memoryBackend{}

	p, err := New(Config{
		Client:  engineClient{discovery.New(src, nil)},
		Backend: backend,
		Locale:  "us",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := p.Run(context.Background(), []string{"why is the sky blue"}, discovery.NoLimit)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// seed plus two discovered questions
	if len(backend.records) != 3 {
		t.Fatalf("expected 3 persisted records, got %d", len(backend.records))
	}

	bySeed := map[string]*storage.Record{}
	for _, rec := range backend.records {
		if rec.Seed != "why is the sky blue" {
			t.Errorf("expected seed on every record, got %q", rec.Seed)
		}
		if rec.Locale != "us" {
			t.Errorf("expected locale us, got %q", rec.Locale)
		}
		if rec.ID == "" {
			t.Error("expected generated record ID")
		}
		if rec.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
		bySeed[rec.Question] = rec
	}

	seedRec := bySeed["why is the sky blue"]
	if seedRec == nil || !seedRec.HasAnswer {
		t.Fatalf("expected answered seed record, got %+v", seedRec)
	}
	if seedRec.Category != "why" {
		t.Errorf("expected seed classified as why, got %q", seedRec.Category)
	}
	if len(seedRec.Related) != 2 {
		t.Errorf("expected 2 related questions on seed record, got %v", seedRec.Related)
	}

	unanswered := bySeed["how high is the sky"]
	if unanswered == nil || unanswered.HasAnswer {
		t.Fatalf("expected unanswered record for how high is the sky, got %+v", unanswered)
	}

	if summary.TotalQuestions != 3 {
		t.Errorf("expected 3 questions in summary, got %d", summary.TotalQuestions)
	}
	if summary.TotalAnswered != 2 {
		t.Errorf("expected 2 answered in summary, got %d", summary.TotalAnswered)
	}
	if summary.ByCategory["why"] != 2 {
		t.Errorf("expected 2 why questions, got %d", summary.ByCategory["why"])
	}
}

func TestPipeline_Run_SkipsExtractionFailures(t *testing.T) {
	src := &stubSource{
		graph: map[string][]string{
			"seed q": {"broken q", "fine q"},
		},
		answers: map[string]string{
			"broken q": "present but malformed",
			"fine q":   "a clean answer",
		},
		badFields: map[string]bool{"broken q": true},
	}
	backend := &memoryBackend{}

	p, err := New(Config{Client: engineClient{discovery.New(src, nil)}, Backend: backend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := p.Run(context.Background(), []string{"seed q"}, discovery.NoLimit)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// broken q is skipped, seed and fine q survive
	if len(backend.records) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(backend.records))
	}
	for _, rec := range backend.records {
		if rec.Question == "broken q" {
			t.Errorf("expected broken q to be skipped")
		}
	}
	if summary.TotalQuestions != 2 {
		t.Errorf("expected 2 questions in summary, got %d", summary.TotalQuestions)
	}
}

func TestPipeline_Run_AbortsOnTraversalError(t *testing.T) {
	src := &stubSource{
		fail: map[string]error{"seed q": errors.New("connection refused")},
	}
	backend := &memoryBackend{}

	p, err := New(Config{Client: engineClient{discovery.New(src, nil)}, Backend: backend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Run(context.Background(), []string{"seed q"}, 5)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	if !strings.Contains(err.Error(), `collect "seed q"`) {
		t.Errorf("expected collect context in error, got %v", err)
	}
	if len(backend.records) != 0 {
		t.Errorf("expected no persisted records, got %d", len(backend.records))
	}
}

func TestPipeline_Run_AbortsOnBlock(t *testing.T) {
	src := &stubSource{
		graph: map[string][]string{
			"seed q": {"q a", "q b"},
		},
		answers: map[string]string{"seed q": "an answer"},
		// NoLimit collect is one lookup, answering the seed is the second,
		// so the block verdict lands on the first discovered question
		failAfter: 2,
		blockErr:  &serp.BlockedError{Reason: "captcha", URL: "https://www.google.com/sorry", StatusCode: 429},
	}
	backend := &memoryBackend{}

	p, err := New(Config{Client: engineClient{discovery.New(src, nil)}, Backend: backend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Run(context.Background(), []string{"seed q"}, discovery.NoLimit)
	if err == nil {
		t.Fatal("expected run to fail on block verdict")
	}
	var blocked *serp.BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected BlockedError, got %v", err)
	}
	if blocked.Reason != "captcha" {
		t.Errorf("expected captcha reason, got %q", blocked.Reason)
	}

	// the seed was answered and persisted before the block landed
	if len(backend.records) != 1 {
		t.Errorf("expected 1 persisted record before abort, got %d", len(backend.records))
	}
}

func TestPipeline_Run_AbortsOnSaveError(t *testing.T) {
	src := &stubSource{
		graph:   map[string][]string{"seed q": {"q a"}},
		answers: map[string]string{"seed q": "an answer"},
	}
	backend := &memoryBackend{failSave: true}

	p, err := New(Config{Client: engineClient{discovery.New(src, nil)}, Backend: backend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Run(context.Background(), []string{"seed q"}, discovery.NoLimit)
	if err == nil {
		t.Fatal("expected run to fail on save error")
	}
	if !strings.Contains(err.Error(), "save record") {
		t.Errorf("expected save context in error, got %v", err)
	}
}
