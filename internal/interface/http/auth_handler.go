package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
	"github.com/oksasatya/restaurant-review-api/pkg/response"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Logger  logrus.FieldLogger
	Cookies *helpers.Manager
}

func NewAuthHandler(auth *application.AuthService, logger logrus.FieldLogger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger, Cookies: cookies}
}

type credentialsRequest struct {
	Username string `json:"username" form:"username" binding:"required,nowhitespace,max=64"`
	Password string `json:"password" form:"password" binding:"required,max=72"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// Token POST /api/v1/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.login(c, req)
}

// TokenForm POST /api/v1/token_form
func (h *AuthHandler) TokenForm(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	h.login(c, req)
}

func (h *AuthHandler) login(c *gin.Context, req credentialsRequest) {
	pair, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}, "login successful", expiryMeta(pair.AccessTokenExpiry, pair.RefreshTokenExpiry))
}

// RefreshToken POST /api/v1/refresh_token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refresh := middleware.BearerToken(c, helpers.RefreshTokenCookie)
	if refresh == "" {
		middleware.Unauthenticated(c, "missing refresh token")
		return
	}
	access, exp, err := h.Auth.Refresh(c.Request.Context(), refresh)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetAccess(c, access, exp)
	response.Success(c, http.StatusOK, tokenResponse{AccessToken: access, TokenType: "bearer"}, "token refreshed", expiryMeta(exp, time.Time{}))
}

// Logout POST /api/v1/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refresh := middleware.BearerToken(c, helpers.RefreshTokenCookie)
	if refresh == "" {
		middleware.Unauthenticated(c, "missing refresh token")
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), refresh); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Signup POST /api/v1/user_signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Auth.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "user created", nil)
}

func expiryMeta(access, refresh time.Time) gin.H {
	meta := gin.H{"access_expires_at": access}
	if !refresh.IsZero() {
		meta["refresh_expires_at"] = refresh
	}
	return meta
}
