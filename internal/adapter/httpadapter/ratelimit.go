package httpadapter

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
	"golang.org/x/time/rate"
)

// RateLimit configures the per-client token bucket on /api/ routes.
type RateLimit struct {
	RPS   float64
	Burst int
}

// limiterStore keeps one token bucket per client key and evicts idle keys.
type limiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(cfg RateLimit) *limiterStore {
	return &limiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		idleTTL: 15 * time.Minute,
	}
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *limiterStore) cleanup(now time.Time) {
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// startJanitor evicts idle keys every interval until ctx is done.
func (s *limiterStore) startJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.cleanup(now)
			}
		}
	}()
}

func (s *limiterStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// clientKey identifies a client by its remote host.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func withRateLimit(store *limiterStore, metrics *observability.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		lim := store.get(clientKey(r), now)

		res := lim.ReserveN(now, 1)
		delay := res.DelayFrom(now)
		if res.OK() && delay == 0 {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := 1
		if res.OK() {
			res.CancelAt(now)
			retryAfter = max(1, int(math.Ceil(delay.Seconds())))
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

		metrics.RateLimited.Inc()
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
	})
}
