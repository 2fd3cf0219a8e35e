// Package ratelimit limits HTTP requests per client and endpoint with token buckets.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// EndpointConfig is the limit of the requests matching Method and Path.
// A "{name}" segment in Path matches any single segment; a Path ending in "/" matches by prefix.
type EndpointConfig struct {
	Path      string
	Method    string
	PerMinute float64 // zero or negative means unlimited
	Burst     int
}

// Config holds rate limiting configuration
type Config struct {
	Enabled          bool
	DefaultPerMinute float64
	Burst            int
	IdleTimeout      time.Duration
	Endpoints        []EndpointConfig
}

// RankEndpoints limits the routes that run the ranking pipeline.
// Stored score listings fall under the default limit.
func RankEndpoints(perMinute float64, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/jobs/{id}/rank", Method: "POST", PerMinute: perMinute, Burst: burst},
		{Path: "/jobs/{id}/rank/stream", Method: "POST", PerMinute: perMinute, Burst: burst},
		{Path: "/jobs/{id}/shortlist", Method: "GET", PerMinute: perMinute, Burst: burst},
	}
}

// Info describes the limit applied to one request
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter keeps one token bucket per client and endpoint
type Limiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*entry
}

// NewLimiter creates a limiter; idle buckets are dropped lazily
func NewLimiter(config Config) *Limiter {
	return &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*entry),
	}
}

// Allow consumes a token for the request, if one is available
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	endpoint := MatchEndpoint(path, method, l.config.Endpoints)
	if endpoint == nil {
		endpoint = &EndpointConfig{Path: "*", Method: method, PerMinute: l.config.DefaultPerMinute, Burst: l.config.Burst}
	}
	if endpoint.PerMinute <= 0 {
		return true, Info{Allowed: true}
	}

	burst := endpoint.Burst
	if burst <= 0 {
		burst = 1
	}

	now := l.now()
	limiter := l.bucket(clientID+":"+endpoint.Method+":"+endpoint.Path, rate.Limit(endpoint.PerMinute/60), burst, now)

	reservation := limiter.ReserveN(now, 1)
	info := Info{Limit: burst}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		info.RetryAfter = delay
		return false, info
	}

	info.Allowed = true
	info.Remaining = int(limiter.TokensAt(now))
	return true, info
}

// bucket returns the limiter of key, creating it and evicting idle ones as needed
func (l *Limiter) bucket(key string, limit rate.Limit, burst int, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.IdleTimeout > 0 {
		for k, e := range l.buckets {
			if now.Sub(e.lastAccess) > l.config.IdleTimeout {
				delete(l.buckets, k)
			}
		}
	}

	e, ok := l.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(limit, burst)}
		l.buckets[key] = e
	}
	e.lastAccess = now
	return e.limiter
}

// Len returns the number of live buckets
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil if no configuration matches. Health and metrics checks are unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (path == "/health" || path == "/metrics") {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.Contains(config.Path, "{") && matchSegments(config.Path, path) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

// matchSegments compares pattern and path segment by segment; "{name}" matches any non-empty segment
func matchSegments(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}
