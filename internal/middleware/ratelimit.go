package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"FoodDelivery/config"
	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/response"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter хранит token bucket на каждый IP адрес клиента.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewIPRateLimiter(cfg config.RateLimitConfig) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter.Allow()
}

// Cleanup забывает клиентов, не приходивших дольше maxIdle, и возвращает
// их число.
func (l *IPRateLimiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := l.now().Add(-maxIdle)
	removed := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(threshold) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// RateLimit отвечает 429 TOO_MANY_REQUESTS, когда клиент исчерпал свой лимит.
func RateLimit(limiter *IPRateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ip := clientIP(request)
			if !limiter.Allow(ip) {
				logger.Debug("превышен лимит запросов", zap.String("ip", ip), zap.String("path", request.URL.Path))
				writer.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limiter.limit)))
				response.Error(writer, logger, apperror.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func retryAfterSeconds(limit rate.Limit) int {
	if limit <= 0 {
		return 60
	}
	seconds := int(1 / float64(limit))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// clientIP берёт адрес из RemoteAddr. X-Forwarded-For учитывается раньше,
// в middleware.RealIP из chi.
func clientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
