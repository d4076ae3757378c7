package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Config defines the setup for the HTTP Client.
type Config struct {
	Timeout time.Duration
	// MaxRedirects caps how many redirects are followed. A negative
	// value disables following redirects entirely.
	MaxRedirects int
	UseCookieJar bool
	// Provide a custom Transport, e.g. for proxies or TLS fingerprinting
	Transport http.RoundTripper
}

// Client wraps a standard http.Client to provide configurable timeouts,
// redirect policies, and cookie management.
type Client struct {
	*http.Client
}

// New creates a new HTTP client based on the provided configuration.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &http.Client{
		Timeout: cfg.Timeout,
	}

	if cfg.MaxRedirects >= 0 {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("http client: stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	} else {
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	if cfg.UseCookieJar {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("http client: %w", err)
		}
		c.Jar = jar
	}

	if cfg.Transport != nil {
		c.Transport = cfg.Transport
	}

	return &Client{Client: c}, nil
}

// Do executes an HTTP request. The provided context.Context should control
// the overarching request timeout/cancellation independent of the client timeout.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		return nil, errors.New("http client: context cannot be nil")
	}

	reqWithCtx := req.Clone(ctx)

	resp, err := c.Client.Do(reqWithCtx)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	return resp, nil
}

// SeedCookies stores cookies in the client jar for the given site URL.
// The client must have been built with UseCookieJar enabled.
func (c *Client) SeedCookies(site string, cookies []*http.Cookie) error {
	if c.Jar == nil {
		return errors.New("http client: no cookie jar configured")
	}
	u, err := url.Parse(site)
	if err != nil {
		return fmt.Errorf("http client: parse cookie site: %w", err)
	}
	c.Jar.SetCookies(u, cookies)
	return nil
}

// ConsentCookies returns the cookies Google checks before serving results
// without the consent interstitial. Seeding them keeps EU-routed requests
// on the results page. The cookies are host-only so the jar accepts them
// for whatever site they are seeded against.
func ConsentCookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: "CONSENT", Value: "YES+cb.20240101-00-p0.en+FX", Path: "/"},
		{Name: "SOCS", Value: "CAISHAgBEhJnd3NfMjAyNDAxMDEtMF9SQzIaAmVuIAEaBgiAo-OtBg", Path: "/"},
	}
}
