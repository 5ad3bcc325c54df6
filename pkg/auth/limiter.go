package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterPool applies one token bucket per key. Buckets that have been idle
// for longer than idleTTL are dropped on the next prune.
type limiterPool struct {
	mu        sync.Mutex
	m         map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterPool allows attempts calls per window for every key.
func NewLimiterPool(attempts int, window time.Duration) *limiterPool {
	if attempts <= 0 {
		attempts = 5
	}
	if window <= 0 {
		window = 30 * time.Second
	}
	return &limiterPool{
		m:       make(map[string]*limiterEntry),
		limit:   rate.Every(window / time.Duration(attempts)),
		burst:   attempts,
		idleTTL: 2 * window,
		now:     time.Now,
	}
}

func (p *limiterPool) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.prune(now)

	e, ok := p.m[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.m[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

func (p *limiterPool) prune(now time.Time) {
	if now.Sub(p.lastPrune) < p.idleTTL {
		return
	}
	p.lastPrune = now
	for k, e := range p.m {
		if now.Sub(e.lastSeen) > p.idleTTL {
			delete(p.m, k)
		}
	}
}
