package router

import (
	"github.com/bluestock/ipo-api/internal/container"
	handlers "github.com/bluestock/ipo-api/internal/interface/http"
	"github.com/bluestock/ipo-api/internal/router/modules"
)

// InitModules builds the handlers from the container and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	limits := c.RateStore()

	auth := handlers.NewAuthHandler(c.AuthService(), c.JWT, c.Cookies(), c.Logger, cfg.DebugResetToken)
	r.Add(modules.NewAuthModule(auth, c.JWT, limits))

	r.Add(modules.NewIPOModule(handlers.NewIPOHandler(c.IPOService(), c.Logger)))

	var pinger handlers.Pinger
	if c.Store != nil {
		pinger = c.Store
	}
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(pinger)))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limits))
	}
}
