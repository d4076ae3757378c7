package bypass

import (
	"bytes"
	"net/http"
	"strings"
)

// Signal carries the response fields the detectors inspect. It is kept
// free of transport types so results loaded back from storage can be
// re-analyzed the same way.
type Signal struct {
	FinalURL   string
	StatusCode int
	Header     map[string][]string
	Body       []byte
}

// Detector examines a response to determine whether the engine was
// challenged or blocked instead of served results.
type Detector func(sig Signal) (detected bool, reason string)

// Reasons reported by the default detectors.
const (
	ReasonCaptcha   = "captcha"
	ReasonConsent   = "consent"
	ReasonRateLimit = "rate_limit"
	ReasonHTTPBlock = "http_block"
)

// DefaultDetectors returns the standard detector chain. Order matters:
// the captcha interstitial also arrives with a 429, so it runs before
// the plain rate limit check.
func DefaultDetectors() []Detector {
	return []Detector{
		detectCaptcha,
		detectConsent,
		detectRateLimit,
		detectHTTPBlock,
	}
}

// Analyze runs the signal through the detectors and returns the first
// hit. An empty reason with false means the response looks like a
// normal results page.
func Analyze(sig Signal, detectors []Detector) (string, bool) {
	for _, d := range detectors {
		if detected, reason := d(sig); detected {
			return reason, true
		}
	}
	return "", false
}

func getHeader(headers map[string][]string, key string) string {
	if vals, ok := headers[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	// Case-insensitive fallback for headers that round-tripped
	// through storage without canonicalization.
	lowerKey := strings.ToLower(key)
	for k, vals := range headers {
		if strings.ToLower(k) == lowerKey && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

// detectCaptcha recognizes the "unusual traffic" interstitial. Google
// redirects challenged clients to /sorry/ regardless of status code.
func detectCaptcha(sig Signal) (bool, string) {
	if strings.Contains(sig.FinalURL, "google.com/sorry") || strings.Contains(sig.FinalURL, "/sorry/index") {
		return true, ReasonCaptcha
	}
	if bytes.Contains(sig.Body, []byte("unusual traffic from your computer network")) ||
		bytes.Contains(sig.Body, []byte(`id="captcha-form"`)) ||
		bytes.Contains(sig.Body, []byte("g-recaptcha")) {
		return true, ReasonCaptcha
	}
	return false, ""
}

// detectConsent recognizes the EU consent wall that replaces results
// when the CONSENT/SOCS cookies are missing.
func detectConsent(sig Signal) (bool, string) {
	if strings.Contains(sig.FinalURL, "consent.google.com") {
		return true, ReasonConsent
	}
	if bytes.Contains(sig.Body, []byte("Before you continue to Google")) ||
		bytes.Contains(sig.Body, []byte(`action="https://consent.google.com`)) {
		return true, ReasonConsent
	}
	return false, ""
}

func detectRateLimit(sig Signal) (bool, string) {
	if sig.StatusCode == http.StatusTooManyRequests {
		return true, ReasonRateLimit
	}
	if sig.StatusCode == http.StatusServiceUnavailable && getHeader(sig.Header, "Retry-After") != "" {
		return true, ReasonRateLimit
	}
	return false, ""
}

func detectHTTPBlock(sig Signal) (bool, string) {
	if sig.StatusCode == http.StatusForbidden {
		return true, ReasonHTTPBlock
	}
	return false, ""
}
