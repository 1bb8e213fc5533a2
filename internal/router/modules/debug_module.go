package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/restaurant-review-api/internal/interface/middleware"
)

const debugVarsPerMinute = 120

// DebugModule publishes expvar counters at /debug/vars, limited per IP.
type DebugModule struct {
	Limit Limit
}

func NewDebugModule(limit Limit) *DebugModule { return &DebugModule{Limit: limit} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", m.Limit(debugVarsPerMinute, time.Minute, middleware.KeyByIP()), gin.WrapH(expvar.Handler()))
}
