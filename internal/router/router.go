package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/muniyaraj/venue-booking/internal/config"
	"github.com/muniyaraj/venue-booking/internal/handler"
	"github.com/muniyaraj/venue-booking/internal/middleware"
)

// Register wires every HTTP route onto the provided Echo instance.
//
// Read endpoints (unit catalog, availability, showtime listing) sit behind
// the Redis response cache when a Redis client is available; the short TTL
// keeps stale availability to a bounded window.  Mutating booking endpoints
// sit behind the token-bucket rate limiter instead, never the cache.  Admin
// inventory routes require a bearer token carrying the ADMIN role.
//
// When rdb is nil (Redis unreachable at startup) both middlewares are
// skipped and the API serves uncached, unthrottled.  The service stays
// correct without Redis; it is purely protective infrastructure.
func Register(e *echo.Echo, b *handler.BookingHandler, a *handler.AdminHandler, adminSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	var cache, limiter echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		limiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	v1 := e.Group("/v1")

	reads := v1.Group("")
	if cache != nil {
		reads.Use(cache)
	}
	reads.GET("/venues/:kind/units", b.Units)
	reads.GET("/bookings", b.ListConfirmed)

	writes := v1.Group("")
	if limiter != nil {
		writes.Use(limiter)
	}
	// Availability and showtime listing are POST lookups (date in the body),
	// so they go through the limiter group rather than the cache.
	writes.POST("/availability", b.Availability)
	writes.POST("/showtimes", b.Showtimes)
	writes.POST("/bookings", b.Initiate)
	writes.DELETE("/bookings/pending", b.CancelPending)
	writes.POST("/payments/verify", b.Verify)

	admin := v1.Group("/admin", middleware.AdminAuth(adminSecret))
	admin.POST("/showtimes", a.AddShowtime)
	admin.POST("/slots", a.AddSlot)
}
