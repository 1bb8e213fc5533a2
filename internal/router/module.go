package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/router/modules"
)

// Module mounts one feature's routes under the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

var (
	_ Module = (*modules.AuthModule)(nil)
	_ Module = (*modules.UserModule)(nil)
	_ Module = (*modules.RestaurantModule)(nil)
	_ Module = (*modules.ReviewModule)(nil)
	_ Module = (*modules.DebugModule)(nil)
)
