package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/container"
	handlers "github.com/oksasatya/restaurant-review-api/internal/interface/http"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/internal/router/modules"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// limiterFor returns the per-route limiter factory. Disabled limiting or a
// missing Redis client yields pass-through handlers.
func limiterFor(c *container.Container) modules.Limit {
	rdb := c.Redis
	if !c.Config.RateLimitEnabled {
		rdb = nil
	}
	var allow middleware.AllowFunc
	if c.Config.Env == "development" {
		allow = middleware.AllowPrivateIP()
	}
	return func(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
		return middleware.RateLimit(rdb, middleware.RateLimitConfig{Max: max, Window: window, Key: key, Allow: allow}, c.Logger)
	}
}

// InitModules builds handlers from the container and registers every
// feature module. Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	svc := c.Services()
	limit := limiterFor(c)
	cookies := helpers.NewCookie(c.Config.CookieDomain, c.Config.CookieSecure)

	r.Use(limit(c.Config.RateLimitMax, c.Config.RateLimitWindow, middleware.KeyByIP()))

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, c.Logger, cookies), limit))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, c.Logger), c.JWT))
	r.Add(modules.NewRestaurantModule(handlers.NewRestaurantHandler(svc.Restaurants, c.Logger), c.JWT, limit))
	r.Add(modules.NewReviewModule(handlers.NewReviewHandler(svc.Reviews, c.Logger), c.JWT, limit))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limit))
	}
}
