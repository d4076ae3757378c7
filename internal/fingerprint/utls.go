package fingerprint

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"

	utls "github.com/refraction-networking/utls"
)

// Profile names a TLS ClientHello impersonation target.
type Profile string

const (
	ProfileChrome  Profile = "chrome"
	ProfileFirefox Profile = "firefox"
	ProfileSafari  Profile = "safari"
	ProfileGo      Profile = "go"     // standard library TLS, no impersonation
	ProfileRandom  Profile = "random" // randomized uTLS hello
)

var helloIDs = map[Profile]utls.ClientHelloID{
	ProfileChrome:  utls.HelloChrome_Auto,
	ProfileFirefox: utls.HelloFirefox_Auto,
	ProfileSafari:  utls.HelloIOS_Auto,
	ProfileRandom:  utls.HelloRandomizedALPN,
}

// Parse converts a configuration string into a Profile.
func Parse(s string) (Profile, error) {
	p := Profile(s)
	if p == ProfileGo {
		return p, nil
	}
	if _, ok := helloIDs[p]; !ok {
		return "", fmt.Errorf("fingerprint: unknown profile %q (valid: %v)", s, Profiles())
	}
	return p, nil
}

// Profiles lists the recognized profile names.
func Profiles() []Profile {
	out := []Profile{ProfileGo}
	for p := range helloIDs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Transport returns an http.RoundTripper whose TLS handshake matches the
// given profile. ProfileGo yields a plain cloned http.Transport; the
// browser profiles swap in a uTLS handshake via DialTLSContext.
// proxyFunc, when non-nil, becomes the transport's Proxy.
func Transport(p Profile, proxyFunc func(*http.Request) (*url.URL, error)) (http.RoundTripper, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyFunc != nil {
		transport.Proxy = proxyFunc
	}

	if p == ProfileGo {
		return transport, nil
	}

	helloID, ok := helloIDs[p]
	if !ok {
		return nil, fmt.Errorf("fingerprint: unknown profile %q", p)
	}

	transport.DialTLSContext = dialTLS(transport, helloID)
	return transport, nil
}

// dialTLS wraps the transport's TCP dialer with a uTLS handshake that
// presents the chosen ClientHello.
func dialTLS(transport *http.Transport, helloID utls.ClientHelloID) func(context.Context, string, string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		tcpConn, err := transport.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}

		uConn := utls.UClient(tcpConn, &utls.Config{ServerName: host}, helloID)
		if err := uConn.HandshakeContext(ctx); err != nil {
			_ = tcpConn.Close()
			return nil, fmt.Errorf("fingerprint: utls handshake: %w", err)
		}
		return uConn, nil
	}
}
