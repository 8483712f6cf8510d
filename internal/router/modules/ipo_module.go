package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/bluestock/ipo-api/internal/interface/http"
)

type IPOModule struct {
	Handler *handlers.IPOHandler
}

func NewIPOModule(h *handlers.IPOHandler) *IPOModule {
	return &IPOModule{Handler: h}
}

func (m *IPOModule) Register(rg *gin.RouterGroup) {
	// GET and POST share /registerIpo
	rg.POST("/registerIpo", m.Handler.Register)
	rg.GET("/registerIpo", m.Handler.List)
	rg.DELETE("/deleteIpo/:id", m.Handler.Delete)
	rg.GET("/ipo-stats", m.Handler.Stats)

	rg.GET("/ipo/search", m.Handler.Search)
	rg.GET("/ipo/:id", m.Handler.Get)
	rg.POST("/ipo/:id/documents/:kind", m.Handler.UploadDocument)
}
