package useragent

import (
	"crypto/rand"
	"math/big"
	"sync/atomic"
)

// Agent is a browser identity: a User-Agent string together with the
// client-hint headers a real browser would send alongside it. Search
// backends cross-check these, so a Chrome UA with Firefox hints is an
// easy block signal.
type Agent struct {
	UserAgent string
	// Sec-Ch-Ua header value. Empty for browsers that do not send
	// client hints (Firefox, Safari); callers must omit the header
	// rather than send an empty value.
	SecChUA         string
	SecChUAMobile   string
	SecChUAPlatform string
}

// DefaultAgents provides a realistic set of modern desktop browser identities.
var DefaultAgents = []Agent{
	{
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36",
		SecChUA:         `"Chromium";v="139", "Not;A=Brand";v="99", "Google Chrome";v="139"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Windows"`,
	},
	{
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36",
		SecChUA:         `"Chromium";v="140", "Not=A?Brand";v="24", "Google Chrome";v="140"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Windows"`,
	},
	{
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36",
		SecChUA:         `"Chromium";v="140", "Not=A?Brand";v="24", "Google Chrome";v="140"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"macOS"`,
	},
	{
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36",
		SecChUA:         `"Chromium";v="139", "Not;A=Brand";v="99", "Google Chrome";v="139"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Linux"`,
	},
	{
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36 Edg/140.0.0.0",
		SecChUA:         `"Chromium";v="140", "Not=A?Brand";v="24", "Microsoft Edge";v="140"`,
		SecChUAMobile:   "?0",
		SecChUAPlatform: `"Windows"`,
	},
	// Firefox and Safari send no Sec-Ch-Ua at all.
	{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:141.0) Gecko/20100101 Firefox/141.0",
	},
	{
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:142.0) Gecko/20100101 Firefox/142.0",
	},
	{
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.5 Safari/605.1.15",
	},
}

// Pool hands out browser identities sequentially or at random.
type Pool struct {
	agents  []Agent
	counter atomic.Uint64
}

// NewPool creates a new identity pool. If the provided slice is empty,
// it falls back to DefaultAgents.
func NewPool(agents []Agent) *Pool {
	if len(agents) == 0 {
		agents = DefaultAgents
	}
	// Copy to avoid external mutation
	copied := make([]Agent, len(agents))
	copy(copied, agents)
	return &Pool{
		agents: copied,
	}
}

// FromStrings builds a pool from bare User-Agent strings with no client
// hints, for callers that load a flat UA list from configuration.
func FromStrings(uas []string) *Pool {
	if len(uas) == 0 {
		return NewPool(nil)
	}
	agents := make([]Agent, len(uas))
	for i, ua := range uas {
		agents[i] = Agent{UserAgent: ua}
	}
	return NewPool(agents)
}

// Next returns the next identity in round-robin order.
// It is safe for concurrent use.
func (p *Pool) Next() Agent {
	if len(p.agents) == 0 {
		return Agent{}
	}
	idx := p.counter.Add(1) - 1
	return p.agents[idx%uint64(len(p.agents))]
}

// Random returns a random identity using crypto/rand.
// It is safe for concurrent use.
func (p *Pool) Random() Agent {
	if len(p.agents) == 0 {
		return Agent{}
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(p.agents))))
	if err != nil {
		// Fallback to sequential if crypto/rand fails
		return p.Next()
	}
	return p.agents[n.Int64()]
}

// All returns a copy of every identity currently in the pool.
func (p *Pool) All() []Agent {
	copied := make([]Agent, len(p.agents))
	copy(copied, p.agents)
	return copied
}
