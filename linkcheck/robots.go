package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"

	"github.com/lukemcguire/linklint/urlutil"
)

// robotsEntry stores parsed robots.txt data with its fetch time. A nil group
// allows everything.
type robotsEntry struct {
	group     *robotstxt.Group
	fetchedAt time.Time
}

// RobotsGate decides whether a URL may be probed according to its host's
// robots.txt. Fetches are cached per host and deduplicated across workers.
type RobotsGate struct {
	client    *http.Client
	userAgent string
	cacheTTL  time.Duration

	mu     sync.Mutex
	hosts  map[string]robotsEntry
	flight singleflight.Group
}

// NewRobotsGate creates a gate that fetches robots.txt with client and
// evaluates rules for userAgent.
func NewRobotsGate(client *http.Client, userAgent string) *RobotsGate {
	return &RobotsGate{
		client:    client,
		userAgent: userAgent,
		cacheTTL:  time.Hour,
		hosts:     make(map[string]robotsEntry),
	}
}

// Allowed reports whether rawURL may be requested. Any failure to fetch or
// parse robots.txt allows the URL; the error is returned for logging.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) (bool, error) {
	if !urlutil.IsHTTPScheme(rawURL) {
		return true, nil
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Host == "" {
		return true, nil
	}

	key := parsedURL.Scheme + "://" + parsedURL.Host
	group, err := g.rules(ctx, key)
	if group == nil {
		return true, err
	}

	path := parsedURL.EscapedPath()
	if parsedURL.RawQuery != "" {
		path += "?" + parsedURL.RawQuery
	}
	return group.Test(path), err
}

// rules returns the cached rules for an origin, fetching them on a miss.
func (g *RobotsGate) rules(ctx context.Context, origin string) (*robotstxt.Group, error) {
	g.mu.Lock()
	entry, ok := g.hosts[origin]
	g.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < g.cacheTTL {
		return entry.group, nil
	}

	v, err, _ := g.flight.Do(origin, func() (any, error) {
		group, fetchErr := g.fetch(ctx, origin)
		g.mu.Lock()
		g.hosts[origin] = robotsEntry{group: group, fetchedAt: time.Now()}
		g.mu.Unlock()
		return group, fetchErr
	})
	group, _ := v.(*robotstxt.Group)
	return group, err
}

func (g *RobotsGate) fetch(ctx context.Context, origin string) (*robotstxt.Group, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", origin, err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", origin, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt for %s: %w", origin, err)
	}

	// 404 and 5xx mean no rules: allow all.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", origin, err)
	}
	return robots.FindGroup(g.userAgent), nil
}
