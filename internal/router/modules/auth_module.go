package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/restaurant-review-api/internal/interface/http"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
)

// AuthModule serves token issuance, refresh, logout and self signup.
// Every route is public and limited per client IP.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limit   Limit
}

func NewAuthModule(h *handlers.AuthHandler, limit Limit) *AuthModule {
	return &AuthModule{Handler: h, Limit: limit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := m.Limit(10, time.Minute, middleware.KeyByIPAndPath())
	refreshLimiter := m.Limit(60, time.Minute, middleware.KeyByIPAndPath())
	signupLimiter := m.Limit(5, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/token", loginLimiter, m.Handler.Token)
	rg.POST("/token_form", loginLimiter, m.Handler.TokenForm)
	rg.POST("/refresh_token", refreshLimiter, m.Handler.RefreshToken)
	rg.POST("/logout", refreshLimiter, m.Handler.Logout)
	rg.POST("/user_signup", signupLimiter, m.Handler.Signup)
}
