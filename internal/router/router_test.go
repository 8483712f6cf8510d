package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluestock/ipo-api/config"
	"github.com/bluestock/ipo-api/internal/container"
	"github.com/bluestock/ipo-api/internal/domain/repository/repotest"
	"github.com/bluestock/ipo-api/pkg/helpers"
)

func newEngine(t *testing.T, debug bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c := &container.Container{
		Config: &config.Config{BcryptCost: 4, DebugResetToken: true, DebugMetricsEnabled: debug},
		Logger: helpers.NewDiscardLogger(),
		JWT:    helpers.NewJWTManager("secret", time.Hour),
		Users:  repotest.NewUsers(),
		IPOs:   repotest.NewIPOs(),
	}
	e := gin.New()
	reg := NewRegistry(e)
	InitModules(reg, c)
	reg.RegisterAll()
	return e
}

func routes(e *gin.Engine) []string {
	var out []string
	for _, r := range e.Routes() {
		out = append(out, r.Method+" "+r.Path)
	}
	sort.Strings(out)
	return out
}

func TestInitModules_RoutesAtRoot(t *testing.T) {
	got := routes(newEngine(t, false))
	for _, want := range []string{
		"POST /signup",
		"POST /login",
		"POST /forgot-password",
		"POST /reset-password",
		"POST /registerIpo",
		"GET /registerIpo",
		"DELETE /deleteIpo/:id",
		"GET /ipo-stats",
		"GET /ipo/:id",
		"GET /ipo/search",
		"POST /ipo/:id/documents/:kind",
		"GET /me",
		"GET /healthz",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "GET /debug/vars")
	for _, r := range got {
		assert.NotContains(t, r, "/api/")
	}
}

func TestInitModules_DebugVars(t *testing.T) {
	e := newEngine(t, true)
	require.Contains(t, routes(e), "GET /debug/vars")

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")
}

func TestRegistry_MiddlewareAppliesToModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	reg := NewRegistry(e)
	reg.Use(func(c *gin.Context) { c.Header("X-Test", "1"); c.Next() })
	reg.Add(moduleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}))
	reg.RegisterAll()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Test"))
}

type moduleFunc func(rg *gin.RouterGroup)

func (f moduleFunc) Register(rg *gin.RouterGroup) { f(rg) }
