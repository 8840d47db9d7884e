package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// cooldown is how long a failed proxy is skipped
const cooldown = 5 * time.Minute

// Pool rotates outbound requests across a list of proxies
type Pool struct {
	mu      sync.Mutex
	proxies []*url.URL
	index   int
	failed  map[string]time.Time
}

// Parse builds a Pool from a comma separated list of proxy URLs.
// An empty list yields a nil Pool, meaning direct connections.
func Parse(list string) (*Pool, error) {
	var proxies []*url.URL
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", raw)
		}
		proxies = append(proxies, u)
	}
	if len(proxies) == 0 {
		return nil, nil
	}
	return &Pool{proxies: proxies, failed: make(map[string]time.Time)}, nil
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next proxy that has not failed recently. When every proxy
// is cooling down the next one in order is returned anyway.
func (p *Pool) Next() *url.URL {
	if p == nil || len(p.proxies) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < len(p.proxies); i++ {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[candidate.String()]
		if !ok {
			return candidate
		}
		if time.Since(failedAt) >= cooldown {
			delete(p.failed, candidate.String())
			return candidate
		}
	}

	candidate := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return candidate
}

// MarkFailed skips the proxy for the cooldown period
func (p *Pool) MarkFailed(proxy *url.URL) {
	if p == nil || proxy == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy.String()] = time.Now()
}

// MarkHealthy clears the failure status of a proxy
func (p *Pool) MarkHealthy(proxy *url.URL) {
	if p == nil || proxy == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy.String())
}

// Transport returns a RoundTripper that sends each request through the next
// proxy and marks proxies failed or healthy from the outcome. Each proxy gets
// its own clone of base so connections are never shared between proxies.
// A nil pool returns base unchanged.
func (p *Pool) Transport(base *http.Transport) http.RoundTripper {
	if p == nil {
		return base
	}
	if base == nil {
		base = http.DefaultTransport.(*http.Transport)
	}

	transports := make(map[string]*http.Transport, len(p.proxies))
	for _, u := range p.proxies {
		t := base.Clone()
		t.Proxy = http.ProxyURL(u)
		transports[u.String()] = t
	}
	return &rotatingTransport{pool: p, transports: transports}
}

type rotatingTransport struct {
	pool       *Pool
	transports map[string]*http.Transport
}

func (rt *rotatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	proxy := rt.pool.Next()
	resp, err := rt.transports[proxy.String()].RoundTrip(req)
	if err != nil {
		if req.Context().Err() == nil {
			rt.pool.MarkFailed(proxy)
		}
		return nil, err
	}
	rt.pool.MarkHealthy(proxy)
	return resp, nil
}

// CloseIdleConnections closes idle connections on every proxy transport
func (rt *rotatingTransport) CloseIdleConnections() {
	for _, t := range rt.transports {
		t.CloseIdleConnections()
	}
}
