// Package ratelimit implements a fixed-window request gate keyed by client
// and route. It is in-process and best-effort: an abuse deterrent for a
// single-server deployment, not a correctness mechanism.
package ratelimit

import (
	"sync"
	"time"

	"reqwire/internal/domain"
)

// Rule bounds one route family: at most MaxRequests per Window.
type Rule struct {
	MaxRequests int
	Window      time.Duration
}

// sweepInterval is how often expired windows are removed from the table,
// bounding memory growth under many distinct clients.
const sweepInterval = 60 * time.Second

type windowKey struct {
	clientID string
	route    string
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter tracks request counts per (client, route) with one fixed window
// per key. The whole table sits behind one mutex; the read-check-write on a
// counter must be atomic per key or concurrent bursts undercount.
type Limiter struct {
	mu      sync.Mutex
	windows map[windowKey]*window

	rules       map[string]Rule
	defaultRule Rule

	done chan struct{}
	now  func() time.Time
}

// New creates a limiter with a default rule and optional per-family
// overrides, and starts the background sweep.
func New(defaultRule Rule, rules map[string]Rule) *Limiter {
	l := &Limiter{
		windows:     make(map[windowKey]*window),
		rules:       rules,
		defaultRule: defaultRule,
		done:        make(chan struct{}),
		now:         time.Now,
	}
	go l.sweep()
	return l
}

// rule returns the rule for a route family, falling back to the default.
func (l *Limiter) rule(family string) Rule {
	if r, ok := l.rules[family]; ok {
		return r
	}
	return l.defaultRule
}

// Admit records one request for (clientID, route) under the family's rule.
// It returns nil when the request is allowed, or a RateLimitError carrying
// the retry-after hint when the window is exhausted.
func (l *Limiter) Admit(clientID, route, family string) error {
	rule := l.rule(family)
	key := windowKey{clientID: clientID, route: route}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) || now.Equal(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(rule.Window)}
		return nil
	}

	if w.count < rule.MaxRequests {
		w.count++
		return nil
	}

	retryAfter := w.resetAt.Sub(now)
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return &domain.RateLimitError{RetryAfter: retryAfter}
}

// sweep periodically drops windows that have already expired.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := l.now()
			l.mu.Lock()
			for key, w := range l.windows {
				if now.After(w.resetAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// Close stops the background sweep. Safe to call once.
func (l *Limiter) Close() {
	close(l.done)
}
