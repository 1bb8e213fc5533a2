package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
	handlers "github.com/oksasatya/restaurant-review-api/internal/interface/http"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

type RestaurantModule struct {
	Handler *handlers.RestaurantHandler
	JWT     *helpers.JWTManager
	Limit   Limit
}

func NewRestaurantModule(h *handlers.RestaurantHandler, jwt *helpers.JWTManager, limit Limit) *RestaurantModule {
	return &RestaurantModule{Handler: h, JWT: jwt, Limit: limit}
}

func (m *RestaurantModule) Register(rg *gin.RouterGroup) {
	// Public catalogue
	rg.GET("/restaurants", m.Handler.List)
	rg.GET("/restaurants/search", m.Limit(30, time.Minute, middleware.KeyByIPAndPath()), m.Handler.Search)
	rg.GET("/restaurants/:country/:postcode", m.Handler.Find)

	auth := rg.Group("/restaurant")
	auth.Use(middleware.Auth(m.JWT))
	write := middleware.RequireScopes(scope.UsersWrite)
	{
		auth.GET("/:id", middleware.RequireScopes(scope.UsersMe), m.Handler.Get)
		auth.POST("", write, m.Handler.Create)
		auth.PUT("/:id", write, m.Handler.Update)
		auth.DELETE("/:id", write, m.Handler.Delete)
		auth.POST("/:id/photo", write, m.Limit(10, time.Minute, middleware.KeyBySubject()), m.Handler.UploadPhoto)
	}
}
