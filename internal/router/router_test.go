package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/restaurant-review-api/config"
	"github.com/oksasatya/restaurant-review-api/internal/container"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

func newContainer(t *testing.T, debug bool) *container.Container {
	t.Helper()
	jwt, err := helpers.NewJWTManager(helpers.JWTConfig{Secret: "s", Algorithm: "HS256", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.NoError(t, err)
	return &container.Container{
		Config: &config.Config{Env: "test", DebugMetricsEnabled: debug, RateLimitEnabled: true, RateLimitMax: 100, RateLimitWindow: time.Minute},
		Logger: helpers.NewDiscardLogger(),
		JWT:    jwt,
	}
}

func routeSet(e *gin.Engine) map[string]bool {
	out := map[string]bool{}
	for _, r := range e.Routes() {
		out[r.Method+" "+r.Path] = true
	}
	return out
}

func TestInitModules_RegistersAPIUnderPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	reg := NewRegistry(e)
	InitModules(reg, newContainer(t, false))
	reg.RegisterAll()

	routes := routeSet(e)
	for _, want := range []string{
		"POST /api/v1/token",
		"POST /api/v1/token_form",
		"POST /api/v1/refresh_token",
		"POST /api/v1/logout",
		"POST /api/v1/user_signup",
		"GET /api/v1/users/me",
		"POST /api/v1/users",
		"DELETE /api/v1/users/:id",
		"GET /api/v1/users/count",
		"GET /api/v1/users",
		"GET /api/v1/users/:id",
		"GET /api/v1/scopes",
		"GET /api/v1/restaurants",
		"GET /api/v1/restaurants/search",
		"GET /api/v1/restaurants/:country/:postcode",
		"POST /api/v1/restaurant",
		"GET /api/v1/restaurant/:id",
		"PUT /api/v1/restaurant/:id",
		"DELETE /api/v1/restaurant/:id",
		"POST /api/v1/restaurant/:id/photo",
		"GET /api/v1/reviews/:restaurant_id",
		"POST /api/v1/review/:restaurant_id",
	} {
		require.True(t, routes[want], want)
	}
	require.False(t, routes["GET /api/v1/debug/vars"])
}

func TestInitModules_DebugVarsToggle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	reg := NewRegistry(e)
	InitModules(reg, newContainer(t, true))
	reg.RegisterAll()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/debug/vars", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "memstats")
}

func TestProtectedRouteWithoutTokenIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	reg := NewRegistry(e)
	InitModules(reg, newContainer(t, false))
	reg.RegisterAll()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
