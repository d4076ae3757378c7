package serp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/FranksOps/bramble/internal/fetch"
	"github.com/FranksOps/bramble/internal/metrics"
	"github.com/FranksOps/bramble/pkg/httpclient"
)

const defaultBaseURL = "https://www.google.com/search"

// GoogleConfig configures the scraping Google client. The locale is
// not part of the config; it travels with each Search call as the gl
// parameter.
type GoogleConfig struct {
	// BaseURL of the results endpoint. Override for tests.
	BaseURL string
	// Language is sent as the hl parameter when set.
	Language string
	// Fetch holds the transport settings.
	Fetch fetch.Config
}

// Google queries Google's results page by scraping it.
type Google struct {
	cfg     GoogleConfig
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

var _ Client = (*Google)(nil)

// NewGoogle builds a Google client. When a cookie jar is enabled the
// consent cookies are seeded up front so EU-routed requests skip the
// interstitial.
func NewGoogle(cfg GoogleConfig, logger *slog.Logger) (*Google, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Fetch.AcceptLanguage == "" && cfg.Language != "" {
		cfg.Fetch.AcceptLanguage = cfg.Language + ";q=0.9,en;q=0.7"
	}

	fetcher, err := fetch.New(cfg.Fetch)
	if err != nil {
		return nil, fmt.Errorf("google client: %w", err)
	}

	if cfg.Fetch.UseCookieJar {
		if err := fetcher.SeedCookies(cfg.BaseURL, httpclient.ConsentCookies()); err != nil {
			return nil, fmt.Errorf("google client: %w", err)
		}
	}

	return &Google{cfg: cfg, fetcher: fetcher, logger: logger}, nil
}

// Search fetches and parses the results page for query, with locale
// sent verbatim as the gl parameter. A challenge or block page comes
// back as a BlockedError; transport failures are returned wrapped but
// otherwise untouched.
func (g *Google) Search(ctx context.Context, query, locale string) (*Page, error) {
	target := g.buildURL(query, locale)

	res, err := g.fetcher.Fetch(ctx, target)
	if err != nil {
		metrics.RecordSearch(locale, "error", false, "", 0, 0)
		return nil, fmt.Errorf("google search: %w", err)
	}

	metrics.RecordSearch(locale, strconv.Itoa(res.StatusCode), res.Blocked, res.BlockReason, len(res.Body), res.Duration)

	g.logger.Debug("search complete",
		"query", query,
		"locale", locale,
		"status", res.StatusCode,
		"bytes", len(res.Body),
		"duration", res.Duration.Round(time.Millisecond),
		"blocked", res.Blocked,
	)

	if res.Blocked {
		return nil, &BlockedError{
			Reason:     res.BlockReason,
			URL:        res.FinalURL,
			StatusCode: res.StatusCode,
		}
	}

	page, err := Parse(query, res.Body)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	return page, nil
}

func (g *Google) buildURL(query, locale string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("gl", locale)
	if g.cfg.Language != "" {
		params.Set("hl", g.cfg.Language)
	}
	return g.cfg.BaseURL + "?" + params.Encode()
}
