package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
	"github.com/oksasatya/restaurant-review-api/pkg/response"
)

const (
	CtxSubjectKey = "subject"
	CtxScopesKey  = "scopes"
	CtxFreshKey   = "fresh"
)

// BearerToken returns the token from the Authorization header, falling back
// to the named cookie.
func BearerToken(c *gin.Context, cookie string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie == "" {
		return ""
	}
	token, err := c.Cookie(cookie)
	if err != nil {
		return ""
	}
	return token
}

// Auth requires a valid access token and stores its subject and scopes in
// the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c, helpers.AccessTokenCookie)
		if token == "" {
			Unauthenticated(c, "missing access token")
			return
		}
		claims, err := jwt.VerifyAccess(token)
		if err != nil {
			Unauthenticated(c, "could not validate credentials")
			return
		}
		c.Set(CtxSubjectKey, claims.Subject)
		c.Set(CtxScopesKey, claims.ScopeSet())
		c.Set(CtxFreshKey, claims.Fresh)
		c.Next()
	}
}

// RequireScopes must run after Auth. Every listed scope has to be granted.
func RequireScopes(required ...scope.Name) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := scope.Require(Scopes(c), required...)
		var missing *apperror.MissingScopesError
		if errors.As(err, &missing) {
			response.Error[any](c, http.StatusForbidden, "not enough permissions", gin.H{"missing_scopes": missing.Missing})
			return
		}
		c.Next()
	}
}

// Subject is the username of the authenticated caller.
func Subject(c *gin.Context) string {
	return c.GetString(CtxSubjectKey)
}

func Scopes(c *gin.Context) scope.Set {
	if v, ok := c.Get(CtxScopesKey); ok {
		if s, ok := v.(scope.Set); ok {
			return s
		}
	}
	return scope.NewSet()
}

// Unauthenticated aborts with 401 and a Bearer challenge.
func Unauthenticated(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error[any](c, http.StatusUnauthorized, message, nil)
}
