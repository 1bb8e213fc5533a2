package modules

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
)

func TestDebugModule_RateLimitsPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotMax int
	var gotWindow time.Duration
	var gotKey middleware.KeyFunc
	limit := func(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
		gotMax, gotWindow, gotKey = max, window, key
		return func(c *gin.Context) {
			c.AbortWithStatus(http.StatusTooManyRequests)
		}
	}

	e := gin.New()
	NewDebugModule(limit).Register(e.Group("/api/v1"))

	require.Equal(t, debugVarsPerMinute, gotMax)
	require.Equal(t, time.Minute, gotWindow)
	require.NotNil(t, gotKey)

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/debug/vars", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}
