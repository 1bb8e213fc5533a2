package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
	handlers "github.com/oksasatya/restaurant-review-api/internal/interface/http"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// ReviewModule: listing needs any valid access token, writing needs users:me.
type ReviewModule struct {
	Handler *handlers.ReviewHandler
	JWT     *helpers.JWTManager
	Limit   Limit
}

func NewReviewModule(h *handlers.ReviewHandler, jwt *helpers.JWTManager, limit Limit) *ReviewModule {
	return &ReviewModule{Handler: h, JWT: jwt, Limit: limit}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))

	auth.GET("/reviews/:restaurant_id", m.Handler.List)
	auth.POST("/review/:restaurant_id",
		middleware.RequireScopes(scope.UsersMe),
		m.Limit(20, time.Minute, middleware.KeyBySubject()),
		m.Handler.Create,
	)
}
