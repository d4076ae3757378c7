package serp

import (
	"context"
	"errors"
	"testing"
)

type stubClient struct {
	pages map[string]string
	err   error
}

func (c *stubClient) Search(ctx context.Context, query, locale string) (*Page, error) {
	if c.err != nil {
		return nil, c.err
	}
	return Parse(query, []byte(c.pages[query]))
}

func TestSource_Lookup(t *testing.T) {
	src := NewSource(&stubClient{pages: map[string]string{
		"why is the sky blue": relatedFixture + snippetFixture,
	}})

	res, err := src.Lookup(context.Background(), "why is the sky blue", "us")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	questions, err := res.RelatedQuestions()
	if err != nil {
		t.Fatalf("related questions failed: %v", err)
	}
	if len(questions) == 0 {
		t.Fatal("expected related questions from fixture")
	}

	snip, ok := res.FeaturedSnippet()
	if !ok {
		t.Fatal("expected featured snippet from fixture")
	}
	if snip.Response() == "" {
		t.Error("expected non-empty snippet response")
	}
	fields, err := snip.Fields()
	if err != nil {
		t.Fatalf("fields failed: %v", err)
	}
	if fields["question"] != "why is the sky blue" {
		t.Errorf("expected query carried into fields, got %q", fields["question"])
	}
}

func TestSource_Lookup_NoSnippet(t *testing.T) {
	src := NewSource(&stubClient{pages: map[string]string{
		"plain": relatedFixture,
	}})

	res, err := src.Lookup(context.Background(), "plain", "us")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.FeaturedSnippet(); ok {
		t.Error("expected no snippet on a related-only page")
	}
}

func TestSource_Lookup_ErrorPassesThrough(t *testing.T) {
	cause := errors.New("connection reset")
	src := NewSource(&stubClient{err: cause})

	_, err := src.Lookup(context.Background(), "anything", "us")
	if !errors.Is(err, cause) {
		t.Fatalf("expected underlying client error, got %v", err)
	}
}
