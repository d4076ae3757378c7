package proxy

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// entry tracks the health of a single proxy endpoint.
type entry struct {
	url           *url.URL
	failures      int
	successes     int
	lastUsed      time.Time
	disabledUntil time.Time
}

func (e *entry) disabled(now time.Time) bool {
	return now.Before(e.disabledUntil)
}

// Pool rotates through proxy endpoints, benching ones that keep
// failing for a cooldown period.
type Pool struct {
	mu          sync.Mutex
	entries     []*entry
	byKey       map[string]*entry
	current     int
	maxFailures int
	cooldown    time.Duration
}

// Config defines settings for the proxy pool.
type Config struct {
	// MaxFailures before benching a proxy temporarily.
	MaxFailures int
	// Cooldown is how long a proxy stays benched after hitting MaxFailures.
	Cooldown time.Duration
}

// NewPool creates a proxy pool. Zero config values get reasonable defaults.
func NewPool(cfg Config) *Pool {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Minute
	}
	return &Pool{
		byKey:       make(map[string]*entry),
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
	}
}

// ReadList reads proxy URLs from a file, one per line. Lines starting
// with '#' and empty lines are ignored.
func ReadList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read proxy file: %w", err)
	}
	return urls, nil
}

// LoadFile reads proxies from a file via ReadList and adds them to the
// pool.
func (p *Pool) LoadFile(path string) error {
	urls, err := ReadList(path)
	if err != nil {
		return err
	}
	return p.Add(urls...)
}

// Add parses raw URL strings and adds them to the pool.
func (p *Pool) Add(rawURLs ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, raw := range rawURLs {
		if !strings.Contains(raw, "://") {
			// default to http if scheme is missing
			raw = "http://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse proxy url %q: %w", raw, err)
		}
		e := &entry{url: u}
		p.entries = append(p.entries, e)
		p.byKey[u.String()] = e
	}
	return nil
}

// Next returns the next healthy proxy URL in rotation, or nil when the
// pool is empty or every proxy is cooling down.
func (p *Pool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) == 0 {
		return nil
	}

	now := time.Now()
	for range p.entries {
		e := p.entries[p.current]
		p.current = (p.current + 1) % len(p.entries)

		if e.disabled(now) {
			continue
		}
		// A benched proxy whose cooldown elapsed re-enters with a
		// clean failure count.
		if !e.disabledUntil.IsZero() && !now.Before(e.disabledUntil) {
			e.disabledUntil = time.Time{}
			e.failures = 0
		}
		e.lastUsed = now
		return e.url
	}
	return nil
}

// MarkSuccess records a successful request through the given proxy.
func (p *Pool) MarkSuccess(proxyURL *url.URL) error {
	e, err := p.lookup(proxyURL)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	e.successes++
	if e.failures > 0 {
		e.failures--
	}
	return nil
}

// MarkFailure records a failure for the given proxy. Once failures
// reach the configured maximum the proxy is benched for the cooldown.
func (p *Pool) MarkFailure(proxyURL *url.URL) error {
	e, err := p.lookup(proxyURL)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	e.failures++
	if e.failures >= p.maxFailures {
		e.disabledUntil = time.Now().Add(p.cooldown)
	}
	return nil
}

// Len returns the number of proxies in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Active returns the number of proxies currently eligible for rotation.
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	n := 0
	for _, e := range p.entries {
		if !e.disabled(now) {
			n++
		}
	}
	return n
}

func (p *Pool) lookup(u *url.URL) (*entry, error) {
	if u == nil {
		return nil, errors.New("proxy url cannot be nil")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.byKey[u.String()]
	if !ok {
		return nil, fmt.Errorf("proxy %s not in pool", u)
	}
	return e, nil
}
