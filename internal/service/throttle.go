package service

import (
	"strings"
	"sync"
	"time"
)

// LoginThrottle counts failed login attempts per email/address pair and
// blocks further attempts once a threshold is reached inside a fixed window.
// Successful logins do not reset the counter; only window expiry does.
type LoginThrottle struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	records   map[string]*throttleRecord

	now func() time.Time // overridable in tests
}

type throttleRecord struct {
	failures  int
	expiresAt time.Time
}

// NewLoginThrottle builds a throttle allowing threshold-1 failures before
// blocking for the remainder of the window.
func NewLoginThrottle(threshold int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		threshold: threshold,
		window:    window,
		records:   make(map[string]*throttleRecord),
		now:       time.Now,
	}
}

// ThrottleKey derives the tracking key for an attempt. Email is lowercased so
// case variations share one counter.
func ThrottleKey(email, addr string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + addr
}

// CheckAllowed reports whether another attempt may proceed. When blocked it
// returns the remaining lockout duration.
func (t *LoginThrottle) CheckAllowed(key string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[key]
	if !ok {
		return 0, true
	}
	now := t.now()
	if now.After(rec.expiresAt) {
		delete(t.records, key)
		return 0, true
	}
	if rec.failures >= t.threshold {
		return rec.expiresAt.Sub(now), false
	}
	return 0, true
}

// RecordFailure notes a failed attempt. The window starts at the first
// failure and is not extended by later ones.
func (t *LoginThrottle) RecordFailure(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec, ok := t.records[key]
	if !ok || now.After(rec.expiresAt) {
		t.records[key] = &throttleRecord{failures: 1, expiresAt: now.Add(t.window)}
		return
	}
	rec.failures++
}

// Sweep drops lapsed records. Called periodically by housekeeping.
func (t *LoginThrottle) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for key, rec := range t.records {
		if now.After(rec.expiresAt) {
			delete(t.records, key)
			removed++
		}
	}
	return removed
}
