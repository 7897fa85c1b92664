package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// visitorIdleCutoff is how long a client may stay silent before its token
// state is discarded. A discarded visitor starts over with a full burst.
const visitorIdleCutoff = 10 * time.Minute

// visitor tracks the token-bucket state for a single client IP.
type visitor struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter throttles chat traffic per client IP. Each IP owns a token
// bucket of size burst that refills at rate tokens per second, so a short
// flurry of messages is fine but a sustained flood is not.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     float64
	burst    float64

	// now is swappable so tests can drive refill without sleeping.
	now func() time.Time
}

func NewRateLimiter(rate float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		burst:    float64(burst),
		now:      time.Now,
	}
	go rl.evictIdle()
	return rl
}

// Allow consumes one token from ip's bucket, reporting whether the request
// may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &visitor{tokens: rl.burst - 1, lastSeen: now}
		return true
	}

	v.tokens += now.Sub(v.lastSeen).Seconds() * rl.rate
	if v.tokens > rl.burst {
		v.tokens = rl.burst
	}
	v.lastSeen = now

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

// evictIdle drops visitors that have gone quiet so the visitor map stays
// bounded by recent traffic rather than lifetime traffic.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(visitorIdleCutoff / 2)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := rl.now().Add(-visitorIdleCutoff)
		for ip, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns middleware that answers 429 with the API's JSON error
// envelope once a client exhausts its token bucket.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"detail":     "Too many requests. Please slow down and try again.",
					"error_code": "429",
					"timestamp":  time.Now(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the address resolved by chi's RealIP middleware over the
// raw socket peer.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
