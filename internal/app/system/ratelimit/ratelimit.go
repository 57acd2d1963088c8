// internal/app/system/ratelimit/ratelimit.go
//
// Package ratelimit caps attempts per key in a fixed window. It guards the
// public login route against password guessing.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/waffle/pantry/text"
)

// Limiter allows limit attempts per key per window. It is safe for
// concurrent use. Expired windows are swept on write, so no background
// goroutine is needed.
type Limiter struct {
	mu        sync.Mutex
	windows   map[string]window
	limit     int
	per       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit attempts per key every per.
func New(limit int, per time.Duration) *Limiter {
	return &Limiter{windows: map[string]window{}, limit: limit, per: per, now: time.Now}
}

// Allow records an attempt for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = window{count: 1, expiresAt: now.Add(l.per)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	l.windows[key] = w
	return true
}

// Remaining returns how many attempts key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < 2*l.per {
		return
	}
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
	l.lastSweep = now
}

// SetClock replaces the time source. Tests only.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// ParseProxies parses a comma-separated list of proxy addresses or CIDR
// ranges. A blank list trusts no proxy.
func ParseProxies(list string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if strings.Contains(f, "/") {
			p, err := netip.ParsePrefix(f)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", f, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(f)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", f, err)
		}
		out = append(out, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
	}
	return out, nil
}

// ClientIP returns the caller's address. Forwarding headers are read only
// when the direct peer is a trusted proxy; the result is then the nearest
// X-Forwarded-For hop that is not itself trusted, or X-Real-IP.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !isTrusted(hop, trusted) {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// LoginGuard limits login attempts per client address and per account.
type LoginGuard struct {
	byIP    *Limiter
	byEmail *Limiter
	proxies []netip.Prefix
}

// NewLoginGuard allows 10 attempts per address per minute and 5 per
// account every 5 minutes.
func NewLoginGuard() *LoginGuard {
	return NewLoginGuardWith(New(10, time.Minute), New(5, 5*time.Minute))
}

// NewLoginGuardWith builds a guard from explicit limiters.
func NewLoginGuardWith(byIP, byEmail *Limiter) *LoginGuard {
	return &LoginGuard{byIP: byIP, byEmail: byEmail}
}

// TrustProxies sets the proxies whose forwarding headers identify the
// client, and returns g.
func (g *LoginGuard) TrustProxies(proxies []netip.Prefix) *LoginGuard {
	g.proxies = proxies
	return g
}

// Check records a login attempt and returns a TooManyRequests error when
// either limit is exhausted.
func (g *LoginGuard) Check(r *http.Request, email string) error {
	if !g.byIP.Allow(ClientIP(r, g.proxies)) {
		return apperr.TooManyRequests("too many login attempts; wait a minute and try again")
	}
	if key := text.Fold(strings.TrimSpace(email)); key != "" && !g.byEmail.Allow(key) {
		return apperr.TooManyRequests("too many login attempts for this account; wait a few minutes")
	}
	return nil
}

// Succeeded clears the account limit after a successful login.
func (g *LoginGuard) Succeeded(email string) {
	if key := text.Fold(strings.TrimSpace(email)); key != "" {
		g.byEmail.Reset(key)
	}
}
