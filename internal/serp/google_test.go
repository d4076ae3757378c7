package serp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FranksOps/bramble/internal/bypass"
	"github.com/FranksOps/bramble/internal/fetch"
	"github.com/FranksOps/bramble/internal/fingerprint"
)

func testConfig(baseURL string) GoogleConfig {
	return GoogleConfig{
		BaseURL: baseURL,
		Fetch:   fetch.Config{Fingerprint: fingerprint.ProfileGo},
	}
}

func TestGoogle_Search(t *testing.T) {
	var gotQuery, gotLocale string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLocale = r.URL.Query().Get("gl")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(relatedFixture))
	}))
	defer ts.Close()

	g, err := NewGoogle(testConfig(ts.URL), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := g.Search(context.Background(), "why is the sky blue", "us")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "why is the sky blue" {
		t.Errorf("expected q parameter, got %q", gotQuery)
	}
	if gotLocale != "us" {
		t.Errorf("expected gl=us passed through verbatim, got %q", gotLocale)
	}

	questions, err := page.RelatedQuestions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("expected 2 questions, got %v", questions)
	}
}

func TestGoogle_Search_LanguageParam(t *testing.T) {
	var gotHL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHL = r.URL.Query().Get("hl")
		if al := r.Header.Get("Accept-Language"); al == "" {
			t.Error("expected Accept-Language header")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.Language = "fr"
	g, err := NewGoogle(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := g.Search(context.Background(), "pourquoi le ciel est bleu", "fr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotHL != "fr" {
		t.Errorf("expected hl=fr, got %q", gotHL)
	}
}

func TestGoogle_Search_Blocked(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`<form id="captcha-form">unusual traffic from your computer network</form>`))
	}))
	defer ts.Close()

	g, err := NewGoogle(testConfig(ts.URL), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = g.Search(context.Background(), "anything", "us")
	if err == nil {
		t.Fatal("expected BlockedError")
	}

	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected BlockedError, got %v", err)
	}
	if blocked.Reason != bypass.ReasonCaptcha {
		t.Errorf("expected captcha reason, got %q", blocked.Reason)
	}
	if blocked.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", blocked.StatusCode)
	}
}

func TestGoogle_Search_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	g, err := NewGoogle(testConfig(ts.URL), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := g.Search(context.Background(), "anything", "us"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestGoogle_ConsentCookiesSeeded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("SOCS"); err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.Fetch.UseCookieJar = true
	g, err := NewGoogle(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := g.Search(context.Background(), "anything", "us"); err != nil {
		t.Fatalf("expected consent cookies to be sent, got %v", err)
	}
}

func TestGoogle_DefaultBaseURL(t *testing.T) {
	g, err := NewGoogle(GoogleConfig{Fetch: fetch.Config{Fingerprint: fingerprint.ProfileGo}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.cfg.BaseURL != defaultBaseURL {
		t.Errorf("expected default base URL, got %q", g.cfg.BaseURL)
	}
	if got := g.buildURL("a b", "us"); got != defaultBaseURL+"?gl=us&q=a+b" {
		t.Errorf("unexpected URL %q", got)
	}
}
