package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThrottleKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "user@example.com|1.2.3.4", ThrottleKey("User@Example.COM", "1.2.3.4"))
	require.Equal(t, "user@example.com|1.2.3.4", ThrottleKey("  user@example.com ", "1.2.3.4"))
}

func TestLoginThrottle_LocksAfterThreshold(t *testing.T) {
	t.Parallel()

	throttle := NewLoginThrottle(5, 300*time.Second)
	key := ThrottleKey("a@example.com", "1.2.3.4")

	for i := range 5 {
		_, ok := throttle.CheckAllowed(key)
		require.True(t, ok, "attempt %d should be allowed", i+1)
		throttle.RecordFailure(key)
	}

	retry, ok := throttle.CheckAllowed(key)
	require.False(t, ok)
	require.Greater(t, retry, time.Duration(0))
	require.LessOrEqual(t, retry, 300*time.Second)
}

func TestLoginThrottle_SuccessDoesNotReset(t *testing.T) {
	t.Parallel()

	throttle := NewLoginThrottle(5, 300*time.Second)
	key := ThrottleKey("a@example.com", "1.2.3.4")

	for range 4 {
		throttle.RecordFailure(key)
	}

	// A successful login happens here; nothing is recorded. One more
	// failure still reaches the threshold.
	_, ok := throttle.CheckAllowed(key)
	require.True(t, ok)

	throttle.RecordFailure(key)
	_, ok = throttle.CheckAllowed(key)
	require.False(t, ok)
}

func TestLoginThrottle_WindowExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	throttle := NewLoginThrottle(5, 300*time.Second)
	throttle.now = func() time.Time { return now }

	key := ThrottleKey("a@example.com", "1.2.3.4")
	for range 5 {
		throttle.RecordFailure(key)
	}
	_, ok := throttle.CheckAllowed(key)
	require.False(t, ok)

	// Advance past the window; record lapses and the counter starts over.
	now = now.Add(301 * time.Second)
	_, ok = throttle.CheckAllowed(key)
	require.True(t, ok)

	throttle.RecordFailure(key)
	_, ok = throttle.CheckAllowed(key)
	require.True(t, ok)
}

func TestLoginThrottle_WindowNotExtendedByFailures(t *testing.T) {
	t.Parallel()

	now := time.Now()
	throttle := NewLoginThrottle(5, 300*time.Second)
	throttle.now = func() time.Time { return now }

	key := ThrottleKey("a@example.com", "1.2.3.4")
	throttle.RecordFailure(key)

	// Later failures inside the window keep the original expiry.
	now = now.Add(200 * time.Second)
	for range 4 {
		throttle.RecordFailure(key)
	}
	_, ok := throttle.CheckAllowed(key)
	require.False(t, ok)

	now = now.Add(101 * time.Second)
	_, ok = throttle.CheckAllowed(key)
	require.True(t, ok)
}

func TestLoginThrottle_IndependentKeys(t *testing.T) {
	t.Parallel()

	throttle := NewLoginThrottle(5, 300*time.Second)
	for range 5 {
		throttle.RecordFailure(ThrottleKey("a@example.com", "1.2.3.4"))
	}

	_, ok := throttle.CheckAllowed(ThrottleKey("a@example.com", "5.6.7.8"))
	require.True(t, ok, "same email from another address is not locked")

	_, ok = throttle.CheckAllowed(ThrottleKey("b@example.com", "1.2.3.4"))
	require.True(t, ok, "another email from the same address is not locked")
}

func TestLoginThrottle_ConcurrentFailures(t *testing.T) {
	t.Parallel()

	throttle := NewLoginThrottle(100, 300*time.Second)
	key := ThrottleKey("a@example.com", "1.2.3.4")

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			throttle.RecordFailure(key)
		}()
	}
	wg.Wait()

	_, ok := throttle.CheckAllowed(key)
	require.False(t, ok, "no failure may be lost under concurrency")
}

func TestLoginThrottle_Sweep(t *testing.T) {
	t.Parallel()

	now := time.Now()
	throttle := NewLoginThrottle(5, 300*time.Second)
	throttle.now = func() time.Time { return now }

	for i := range 10 {
		throttle.RecordFailure(ThrottleKey(fmt.Sprintf("u%d@example.com", i), "1.2.3.4"))
	}

	require.Equal(t, 0, throttle.Sweep(), "live records are kept")

	now = now.Add(301 * time.Second)
	require.Equal(t, 10, throttle.Sweep())
}
