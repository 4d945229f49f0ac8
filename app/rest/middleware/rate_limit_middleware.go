package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client IP. Login attempts get a much
// tighter budget than the rest of the API.
type RateLimiter struct {
	visitors   map[string]*visitor
	mutex      sync.Mutex
	loginLimit rate.Limit
	loginBurst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter with the given login budget.
func NewRateLimiter(loginPerSecond float64, loginBurst int) *RateLimiter {
	rl := &RateLimiter{
		visitors:   make(map[string]*visitor),
		loginLimit: rate.Limit(loginPerSecond),
		loginBurst: loginBurst,
	}

	go rl.cleanupVisitors()
	return rl
}

// RateLimit returns the limiting middleware.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			var limit rate.Limit
			var burst int

			path := c.Request().URL.Path
			switch {
			case strings.Contains(path, "/login"):
				limit = rl.loginLimit
				burst = rl.loginBurst
			case strings.Contains(path, "/signup"):
				limit = rate.Every(5 * time.Second)
				burst = 3
			default:
				limit = rate.Every(50 * time.Millisecond)
				burst = 40
			}

			if !rl.allow(ip, path, limit, burst) {
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error": "Rate limit exceeded",
					"code":  "RATE_LIMIT_EXCEEDED",
				})
			}

			return next(c)
		}
	}
}

// Limiters are keyed by ip and path class so a burst of login attempts does
// not starve unrelated API calls from the same address.
func (rl *RateLimiter) allow(ip, path string, limit rate.Limit, burst int) bool {
	key := ip
	if strings.Contains(path, "/login") {
		key = ip + ":login"
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(limit, burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		rl.mutex.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, key)
			}
		}
		rl.mutex.Unlock()
	}
}
