package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluestock/ipo-api/internal/interface/middleware"
)

type DebugModule struct {
	Limits middleware.RateStore
}

func NewDebugModule(limits middleware.RateStore) *DebugModule { return &DebugModule{Limits: limits} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar, rate-limited per IP; private networks are not limited
	rl := middleware.RateLimit(m.Limits, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
