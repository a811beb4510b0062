package docsource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// robotsGate checks robots.txt compliance, caching per-host rulesets
type robotsGate struct {
	mu         sync.RWMutex
	cache      map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
}

func newRobotsGate(userAgent string, timeout time.Duration) *robotsGate {
	return &robotsGate{
		cache:      make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// allowed reports whether rawURL may be fetched, plus any crawl delay
// the host requests. An unreachable robots.txt allows by default.
func (g *robotsGate) allowed(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data, err := g.rulesFor(ctx, parsed)
	if err != nil {
		return true, 0, nil
	}

	delay := time.Duration(0)
	if group := data.FindGroup(g.userAgent); group != nil {
		delay = group.CrawlDelay
	}

	return data.TestAgent(parsed.Path, g.userAgent), delay, nil
}

func (g *robotsGate) rulesFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, ok := g.cache[u.Host]
	g.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.cache[u.Host] = data
	g.mu.Unlock()

	return data, nil
}

// hostLimiter rate-limits fetches per host
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newHostLimiter(requestsPerSecond float64, burst int) *hostLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// wait blocks until the host's rate limit clears, then applies any
// extra crawl delay requested by robots.txt.
func (l *hostLimiter) wait(ctx context.Context, host string, extraDelay time.Duration) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	if extraDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(extraDelay):
		}
	}

	return nil
}
