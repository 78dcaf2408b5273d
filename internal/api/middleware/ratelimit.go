package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"lunchly/internal/config"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	redisWindow            = time.Second
)

type limiterBackend interface {
	allow(ctx context.Context, ip string) (bool, error)
}

// RateLimiter throttles requests per client IP. With a Redis client the
// count is shared by every replica, otherwise each process keeps its own
// token buckets.
type RateLimiter struct {
	backend limiterBackend
	cfg     config.RateLimitConfig
	logger  *slog.Logger
}

// NewRateLimiter starts a sweeper for the in-memory buckets that runs until
// ctx is done. redisClient may be nil.
func NewRateLimiter(ctx context.Context, cfg config.RateLimitConfig, redisClient *redis.Client, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:    cfg,
		logger: logger.With("component", "RateLimiter"),
	}

	switch {
	case !cfg.Enabled:
		rl.logger.Info("Rate limiting is disabled via configuration.")
	case redisClient != nil:
		rl.logger.Info("Rate limiter backed by Redis", "limit", cfg.Burst, "window", redisWindow)
		rl.backend = &redisBackend{client: redisClient, limit: int64(cfg.Burst), window: redisWindow}
	default:
		rl.logger.Info("Rate limiter backed by in-process buckets", "rps", cfg.RPS, "burst", cfg.Burst)
		mem := &memoryBackend{rps: cfg.RPS, burst: cfg.Burst}
		go mem.cleanupLimiters(ctx, limiterCleanupInterval)
		rl.backend = mem
	}

	return rl
}

type memoryBackend struct {
	limiters sync.Map
	rps      float64
	burst    int
}

func (m *memoryBackend) allow(_ context.Context, ip string) (bool, error) {
	return m.getLimiter(ip).Allow(), nil
}

func (m *memoryBackend) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := m.limiters.Load(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := m.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(m.rps), m.burst))
	return limiter.(*rate.Limiter)
}

func (m *memoryBackend) cleanupLimiters(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep drops buckets that have refilled completely.
func (m *memoryBackend) sweep() {
	now := time.Now()
	m.limiters.Range(func(key, value any) bool {
		limiter := value.(*rate.Limiter)
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			m.limiters.Delete(key)
		}
		return true
	})
}

// redisBackend counts requests in fixed windows keyed by IP.
type redisBackend struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func redisKey(ip string) string {
	return fmt.Sprintf("lunchly:ratelimit:%s", ip)
}

func (b *redisBackend) allow(ctx context.Context, ip string) (bool, error) {
	key := redisKey(ip)

	pipe := b.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, b.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("rate limit pipeline for %s: %w", key, err)
	}

	return incr.Val() <= b.limit, nil
}

// clientIP expects chi's RealIP middleware to have run, but still honours the
// forwarding headers when it has not.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Middleware fails open: a Redis outage never blocks page views.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.backend == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		allowed, err := rl.backend.allow(r.Context(), ip)
		if err != nil {
			rl.logger.ErrorContext(r.Context(), "Rate limit check failed, allowing request", slog.String("ip", ip), slog.Any("error", err))
		}
		if !allowed {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", slog.String("ip", ip), slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests, please slow down.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
