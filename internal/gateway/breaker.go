package gateway

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned when a provider's circuit is open and calls
// are being shed.
var ErrBreakerOpen = errors.New("provider circuit open")

// Breaker defaults.
const (
	breakerThreshold = 5
	breakerCooldown  = 30 * time.Second
)

// breaker is a per-provider circuit breaker. After threshold consecutive
// failures the circuit opens and calls fail fast until the cooldown
// elapses; the next call then probes the provider, and one success closes
// the circuit again.
type breaker struct {
	mu        sync.Mutex
	failures  int
	openedAt  time.Time
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

func newBreaker() *breaker {
	return &breaker{
		threshold: breakerThreshold,
		cooldown:  breakerCooldown,
		now:       time.Now,
	}
}

// allow reports whether a call may proceed.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.threshold {
		return true
	}
	return b.now().Sub(b.openedAt) >= b.cooldown
}

// record updates the breaker with a call outcome.
func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures == b.threshold {
		b.openedAt = b.now()
	}
	// Failures past the threshold keep the window sliding so a failed
	// probe re-opens the circuit for a full cooldown.
	if b.failures > b.threshold {
		b.failures = b.threshold
		b.openedAt = b.now()
	}
}
