package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
)

// Limit builds a rate limiting handler for one route or group.
type Limit func(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc
