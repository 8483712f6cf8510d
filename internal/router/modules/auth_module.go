package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/bluestock/ipo-api/internal/interface/http"
	"github.com/bluestock/ipo-api/internal/interface/middleware"
	"github.com/bluestock/ipo-api/pkg/helpers"
)

// AuthModule wires account routes.
// Public: POST /signup, /login, /forgot-password, /reset-password
// Protected: GET /me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Limits  middleware.RateStore
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, limits middleware.RateStore) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	perIP := func(max int) gin.HandlerFunc {
		return middleware.RateLimit(m.Limits, max, time.Minute, middleware.KeyByIPAndPath(), nil)
	}

	rg.POST("/signup", perIP(10), m.Handler.Signup)
	rg.POST("/login", perIP(10), m.Handler.Login)
	rg.POST("/forgot-password", perIP(5), m.Handler.ForgotPassword)
	rg.POST("/reset-password", perIP(30), m.Handler.ResetPassword)

	rg.GET("/me", middleware.JWTAuth(m.JWT), m.Handler.Me)
}
