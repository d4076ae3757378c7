package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/FranksOps/bramble/internal/bypass"
	"github.com/FranksOps/bramble/internal/fingerprint"
	"github.com/FranksOps/bramble/internal/metrics"
	"github.com/FranksOps/bramble/pkg/httpclient"
	"github.com/FranksOps/bramble/pkg/proxy"
	"github.com/FranksOps/bramble/pkg/ratelimit"
	"github.com/FranksOps/bramble/pkg/useragent"
)

type contextKey string

const proxyKey contextKey = "proxy_url"

// Config configures a Fetcher.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	UseCookieJar bool
	// AcceptLanguage is sent verbatim on every request.
	AcceptLanguage string
	ProxyPool      *proxy.Pool
	Agents         *useragent.Pool
	Fingerprint    fingerprint.Profile
	Limiter        *ratelimit.Limiter
	Detectors      []bypass.Detector
}

// Result captures one fetched page along with the block verdict.
type Result struct {
	ID          string
	URL         string
	FinalURL    string
	StatusCode  int
	Header      http.Header
	Body        []byte
	Duration    time.Duration
	CreatedAt   time.Time
	Blocked     bool
	BlockReason string
}

// Fetcher performs GET requests with identity rotation, optional proxy
// rotation, and block detection. A single Fetcher holds one client so
// cookies and pooled connections persist across requests.
type Fetcher struct {
	config Config
	client *httpclient.Client
}

// New initializes a Fetcher with the given configuration.
func New(cfg Config) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Agents == nil {
		cfg.Agents = useragent.NewPool(nil)
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = "en-US,en;q=0.9"
	}
	if string(cfg.Fingerprint) == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}
	if cfg.Detectors == nil {
		cfg.Detectors = bypass.DefaultDetectors()
	}

	// The transport is built once so connections pool across requests.
	// Per-request proxy rotation goes through the request context: the
	// proxy func reads the URL the pool handed out for this request.
	proxyFunc := func(req *http.Request) (*url.URL, error) {
		if val := req.Context().Value(proxyKey); val != nil {
			if u, ok := val.(*url.URL); ok {
				return u, nil
			}
		}
		if req.URL.Hostname() == "127.0.0.1" || req.URL.Hostname() == "localhost" {
			return nil, nil
		}
		return http.ProxyFromEnvironment(req)
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint, proxyFunc)
	if err != nil {
		return nil, fmt.Errorf("setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Fetcher{config: cfg, client: client}, nil
}

// SeedCookies stores cookies for a site ahead of the first request.
// Requires UseCookieJar.
func (f *Fetcher) SeedCookies(site string, cookies []*http.Cookie) error {
	return f.client.SeedCookies(site, cookies)
}

// Fetch executes a GET against targetURL. Transport and protocol
// failures come back as errors wrapping the underlying cause; block
// pages come back as a Result with the verdict filled in.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Result, error) {
	if f.config.Limiter != nil {
		if err := f.config.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var activeProxy *url.URL
	if f.config.ProxyPool != nil {
		if activeProxy = f.config.ProxyPool.Next(); activeProxy != nil {
			req = req.WithContext(context.WithValue(req.Context(), proxyKey, activeProxy))
		}
	}

	f.setHeaders(req)

	resp, err := f.client.Do(req.Context(), req)
	if err != nil {
		if activeProxy != nil {
			_ = f.config.ProxyPool.MarkFailure(activeProxy)
			metrics.RecordProxyFailure(activeProxy.String())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if activeProxy != nil {
		_ = f.config.ProxyPool.MarkSuccess(activeProxy)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	result := &Result{
		ID:         uuid.New().String(),
		URL:        targetURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Duration:   time.Since(start),
		CreatedAt:  start.UTC(),
	}

	result.BlockReason, result.Blocked = bypass.Analyze(bypass.Signal{
		FinalURL:   result.FinalURL,
		StatusCode: result.StatusCode,
		Header:     result.Header,
		Body:       result.Body,
	}, f.config.Detectors)

	return result, nil
}

// setHeaders applies one coherent browser identity to the request.
// Client hint headers are only sent when the identity defines them;
// a Firefox user agent with Chromium hints is a fingerprint mismatch.
func (f *Fetcher) setHeaders(req *http.Request) {
	agent := f.config.Agents.Next()

	req.Header.Set("User-Agent", agent.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", f.config.AcceptLanguage)
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")

	if agent.SecChUA != "" {
		req.Header.Set("Sec-Ch-Ua", agent.SecChUA)
		req.Header.Set("Sec-Ch-Ua-Mobile", agent.SecChUAMobile)
		req.Header.Set("Sec-Ch-Ua-Platform", agent.SecChUAPlatform)
	}
}
