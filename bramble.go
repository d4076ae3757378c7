// Package bramble discovers the questions a search engine associates
// with a topic. Starting from any text it follows the engine's own
// "people also ask" suggestions outward, producing a deduplicated
// stream of related questions and their featured answers.
//
// All traversals are lazy and pull-driven: nothing is fetched until
// the consumer asks for the next item, and abandoning a stream stops
// all further network activity. The locale travels with each call, so
// one client can serve queries for any market.
//
//	client, err := bramble.New(bramble.Config{Language: "en"})
//	if err != nil { ... }
//	questions, err := client.RelatedQuestions(ctx, "why is the sky blue", "us")
package bramble

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FranksOps/bramble/internal/discovery"
	"github.com/FranksOps/bramble/internal/fetch"
	"github.com/FranksOps/bramble/internal/fingerprint"
	"github.com/FranksOps/bramble/internal/serp"
	"github.com/FranksOps/bramble/pkg/proxy"
	"github.com/FranksOps/bramble/pkg/ratelimit"
	"github.com/FranksOps/bramble/pkg/useragent"
)

// NoLimit disables the bound on CollectRelatedQuestions. Collection
// then performs a single direct query instead of a traversal.
const NoLimit = discovery.NoLimit

// Record is the normalized answer for a single question. Fields is
// only populated when HasAnswer is true.
type Record = discovery.Record

// Traversal is the lazy question stream returned by
// TraverseRelatedQuestions.
type Traversal = discovery.Traversal

// AnswerTraversal is the lazy answer stream returned by
// TraverseAnswers.
type AnswerTraversal = discovery.AnswerTraversal

// Config configures a Client. The zero value works: queries go to
// google.com with a Chrome network identity, no rate limit, and no
// proxies.
type Config struct {
	// Language is sent as the hl parameter on every query when set.
	// It also seeds the Accept-Language header.
	Language string

	// BaseURL overrides the results endpoint. For tests.
	BaseURL string

	// Timeout bounds each page fetch. Defaults to 30 seconds.
	Timeout time.Duration

	// MaxRedirects caps redirect chains. Defaults to 5 so block and
	// consent redirects still land on a classifiable page; negative
	// values disable following redirects.
	MaxRedirects int

	// UseCookieJar persists cookies across queries and seeds the
	// consent cookies up front.
	UseCookieJar bool

	// RPS caps outbound queries per second. 0 disables rate limiting.
	RPS float64

	// Jitter is the random fraction (0..1) added to each rate-limit
	// wait. Only meaningful with RPS set.
	Jitter float64

	// Fingerprint selects the TLS identity: "chrome", "firefox",
	// "safari", "random", or "go" for the plain standard library
	// dialer. Defaults to "chrome".
	Fingerprint string

	// Proxies is an optional list of proxy URLs rotated across
	// queries.
	Proxies []string

	// UserAgents overrides the built-in browser identity pool.
	UserAgents []string

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client answers related-question and featured-snippet queries against
// a search backend. A Client is safe for concurrent use; every
// traversal owns its own state.
type Client struct {
	engine *discovery.Engine
	logger *slog.Logger
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 5
	}

	profile := fingerprint.ProfileChrome
	if cfg.Fingerprint != "" {
		var err error
		if profile, err = fingerprint.Parse(cfg.Fingerprint); err != nil {
			return nil, err
		}
	}

	fetchCfg := fetch.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Fingerprint:  profile,
	}
	if cfg.RPS > 0 {
		fetchCfg.Limiter = ratelimit.NewLimiter(cfg.RPS, cfg.Jitter)
	}
	if len(cfg.UserAgents) > 0 {
		fetchCfg.Agents = useragent.FromStrings(cfg.UserAgents)
	}
	if len(cfg.Proxies) > 0 {
		pool := proxy.NewPool(proxy.Config{})
		if err := pool.Add(cfg.Proxies...); err != nil {
			return nil, fmt.Errorf("proxy pool: %w", err)
		}
		fetchCfg.ProxyPool = pool
	}

	google, err := serp.NewGoogle(serp.GoogleConfig{
		BaseURL:  cfg.BaseURL,
		Language: cfg.Language,
		Fetch:    fetchCfg,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		engine: discovery.New(serp.NewSource(google), logger),
		logger: logger,
	}, nil
}

// RelatedQuestions returns the suggestions found directly on the
// results page for text, in document order. One query round trip.
func (c *Client) RelatedQuestions(ctx context.Context, text, locale string) ([]string, error) {
	return c.engine.Related(ctx, text, locale)
}

// TraverseRelatedQuestions starts an unbounded lazy traversal from
// text. Each call begins a fresh run with its own visited set; the
// stream never repeats a question and never contains text itself.
func (c *Client) TraverseRelatedQuestions(ctx context.Context, text, locale string) *Traversal {
	return c.engine.Traverse(ctx, text, locale)
}

// CollectRelatedQuestions gathers related questions for text. Pass
// NoLimit for a single direct query; with max >= 0 a traversal runs
// until strictly more than max questions have been gathered.
func (c *Client) CollectRelatedQuestions(ctx context.Context, text, locale string, max int) ([]string, error) {
	return c.engine.Collect(ctx, text, locale, max)
}

// Answer builds the answer record for question from one query round
// trip. A page without an answer box yields HasAnswer=false rather
// than an error.
func (c *Client) Answer(ctx context.Context, question, locale string) (*Record, error) {
	return c.engine.AnswerFor(ctx, question, locale)
}

// TraverseAnswers starts a lazy traversal from text that emits only
// answered questions. Unanswered pages still expand the frontier.
func (c *Client) TraverseAnswers(ctx context.Context, text, locale string) *AnswerTraversal {
	return c.engine.TraverseAnswers(ctx, text, locale)
}

// SimpleAnswer returns the short answer text for question, or "" when
// the page has no answer box. With fallback set, a question without a
// direct answer tries its first related suggestion once.
func (c *Client) SimpleAnswer(ctx context.Context, question, locale string, fallback bool) (string, error) {
	return c.engine.SimpleAnswer(ctx, question, locale, fallback)
}
