package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
	"github.com/oksasatya/restaurant-review-api/pkg/response"
)

type UserHandler struct {
	Users  *application.UserService
	Logger logrus.FieldLogger
}

func NewUserHandler(users *application.UserService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

type userUpsertRequest struct {
	Username string   `json:"username" binding:"required,nowhitespace,max=64"`
	Password string   `json:"password" binding:"required,max=72"`
	Scopes   []string `json:"scopes" binding:"dive,required"`
	Disabled *bool    `json:"disabled"`
}

// Me GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Users.Me(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "ok", nil)
}

// CreateOrUpdate POST /api/v1/users
func (h *UserHandler) CreateOrUpdate(c *gin.Context) {
	var req userUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Users.CreateOrUpdate(c.Request.Context(), application.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Scopes:   req.Scopes,
		Disabled: req.Disabled,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user saved", nil)
}

// Delete DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Users.Delete(c.Request.Context(), uri.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user deleted", nil)
}

// Get GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Users.Get(c.Request.Context(), uri.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "ok", nil)
}

// List GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := application.NewPage(q.Offset, q.Limit, application.DefaultAdminPageSize)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	users, err := h.Users.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	response.Success(c, http.StatusOK, out, "ok", response.ListMeta{Count: int64(len(out)), Offset: page.Offset, Limit: page.Limit})
}

// Count GET /api/v1/users/count
func (h *UserHandler) Count(c *gin.Context) {
	n, err := h.Users.Count(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": n}, "ok", nil)
}

// Scopes GET /api/v1/scopes
func (h *UserHandler) Scopes(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := application.NewPage(q.Offset, q.Limit, application.DefaultAdminPageSize)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	scopes, err := h.Users.ListScopes(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]scopeResponse, 0, len(scopes))
	for _, s := range scopes {
		out = append(out, scopeResponse{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	response.Success(c, http.StatusOK, out, "ok", response.ListMeta{Count: int64(len(out)), Offset: page.Offset, Limit: page.Limit})
}
