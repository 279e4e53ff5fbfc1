package echoweb

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/trezcool/eduhelp/core/guard"
)

// pageGuard renders the page of route only when the guard allows it, and redirects otherwise.
func (s *server) pageGuard(route guard.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			out := guard.Decide(route, contextIdentity(ctx))
			if out.Render {
				return next(ctx)
			}
			s.Metrics.GuardRedirected(route, out.Redirect)
			return ctx.Redirect(http.StatusSeeOther, out.Redirect)
		}
	}
}

// apiGuard applies the guard decision of route to JSON endpoints:
// anonymous visitors get a 401, signed in visitors without access a 403.
func apiGuard(route guard.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ident := contextIdentity(ctx)
			if guard.Decide(route, ident).Render {
				return next(ctx)
			}
			if ident == nil {
				return errUnauthorized
			}
			return errForbidden
		}
	}
}

// rateLimiter holds one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// newRateLimiter allows perMinute submissions per client IP; perMinute <= 0 disables limiting.
func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		return nil
	}
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (rl *rateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = limiter
	}
	return limiter
}

func (rl *rateLimiter) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if rl == nil {
			return next(ctx)
		}
		if !rl.getLimiter(ctx.RealIP()).Allow() {
			ctx.Logger().Warnf("rate limit exceeded: %s %s", ctx.RealIP(), ctx.Request().URL.Path)
			return errRateLimited
		}
		return next(ctx)
	}
}
