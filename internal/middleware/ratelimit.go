package middleware

import (
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/logger"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter is the limiter of one client address.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter limits form submissions per client address.
type RateLimiter struct {
	rate            rate.Limit
	burst           int
	cleanupInterval time.Duration
	log             logger.Logger
	trusted         map[string]bool

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter from the per-minute budget in cfg and
// starts the background cleanup of idle clients.
func NewRateLimiter(cfg config.RateLimitConfig, log logger.Logger) *RateLimiter {
	perMinute := cfg.FormsPerMinute
	if perMinute <= 0 {
		perMinute = 5
	}
	burst := cfg.FormsBurst
	if burst <= 0 {
		burst = perMinute
	}
	rl := &RateLimiter{
		rate:            rate.Limit(float64(perMinute) / 60.0),
		burst:           burst,
		cleanupInterval: 5 * time.Minute,
		log:             log,
		trusted:         make(map[string]bool, len(cfg.TrustedProxies)),
		limiters:        make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	for _, p := range cfg.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			rl.trusted[p] = true
		}
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects POST requests beyond the budget with 429. Other
// methods pass through untouched.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		ip := rl.clientKey(r)
		if !rl.limiter(ip).Allow() {
			rl.log.With(map[string]interface{}{"ip": ip, "path": r.URL.Path}).Warn("rate limit exceeded")
			retryAfter := int(math.Ceil(1.0 / float64(rl.rate)))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			JSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the connection address. X-Forwarded-For is only consulted
// when the connection comes from a trusted proxy, and then the rightmost
// hop that is not itself a trusted proxy wins.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !rl.trusted[host] {
		return host
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !rl.trusted[hop] {
			return hop
		}
	}
	return host
}

// Clients returns the number of tracked client addresses.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for more than two cleanup intervals.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.cleanupInterval * 2
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}
