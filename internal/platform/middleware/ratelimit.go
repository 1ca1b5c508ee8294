// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/httprate"
	"golang.org/x/time/rate"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/respond"
)

// # Global Rate Limiting

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors holds one token bucket per client address.
type visitors struct {
	mu      sync.Mutex
	entries map[string]*visitor
	limit   rate.Limit
	burst   int
}

func newVisitors(limit rate.Limit, burst int) *visitors {
	return &visitors{entries: make(map[string]*visitor), limit: limit, burst: burst}
}

// reserve takes a token for ip and reports how long the caller must wait
// when none is available.
func (table *visitors) reserve(ip string, now time.Time) (time.Duration, bool) {
	table.mu.Lock()
	defer table.mu.Unlock()

	entry, found := table.entries[ip]
	if !found {
		entry = &visitor{limiter: rate.NewLimiter(table.limit, table.burst)}
		table.entries[ip] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return time.Second, false
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return delay, false
	}
	return 0, true
}

// sweep drops clients idle for longer than ttl.
func (table *visitors) sweep(now time.Time, ttl time.Duration) {
	table.mu.Lock()
	defer table.mu.Unlock()

	for ip, entry := range table.entries {
		if now.Sub(entry.lastSeen) > ttl {
			delete(table.entries, ip)
		}
	}
}

/*
RateLimit applies a per-IP token bucket to every request.

Rejected requests get 429 RATE_LIMITED with a Retry-After header. Each call
owns its bucket table; the sweeper goroutine stops with context.
*/
func RateLimit(context context.Context) func(http.Handler) http.Handler {
	table := newVisitors(rate.Limit(constants.DefaultRateLimitRPS), constants.DefaultRateLimitBurst)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				table.sweep(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wait, allowed := table.reserve(RealIP(request), time.Now())
			if !allowed {
				respond.Error(writer, request, apperr.RateLimited(int(math.Ceil(wait.Seconds()))))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Endpoint Limits

// LimitByClient allows requests per window for each client IP on the routes
// it wraps. It guards endpoints attackers hammer, such as login and the
// public contact form, on top of the global bucket.
func LimitByClient(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(func(request *http.Request) (string, error) {
			return RealIP(request), nil
		}),
		httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.RateLimited(int(math.Ceil(window.Seconds()))))
		}),
	)
}
