package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
	handlers "github.com/oksasatya/restaurant-review-api/internal/interface/http"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// UserModule exposes the caller's profile and user administration.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))

	read := middleware.RequireScopes(scope.UsersRead)
	write := middleware.RequireScopes(scope.UsersWrite)

	auth.GET("/users/me", middleware.RequireScopes(scope.UsersMe), m.Handler.Me)
	auth.GET("/users/count", read, m.Handler.Count)
	auth.GET("/users", read, m.Handler.List)
	auth.GET("/users/:id", read, m.Handler.Get)
	auth.GET("/scopes", read, m.Handler.Scopes)
	auth.POST("/users", write, m.Handler.CreateOrUpdate)
	auth.DELETE("/users/:id", write, m.Handler.Delete)
}
