package kioskapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitor-kiosk/internal/mw"
)

// NewRouter creates the kiosk's local router. staticDir, when set, holds the
// page build served for every other GET.
func NewRouter(h *Handler, staticDir string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.Recovery(log), mw.RequestLogger(log), mw.CORS(), mw.ContentSecurityPolicy())

	k := r.Group("/kiosk")
	{
		k.GET("/state", h.GetState)
		k.GET("/ws", h.Stream)
		k.POST("/select/:id", h.Select)
		k.POST("/cancel", h.Cancel)
		k.POST("/accept", h.Accept)
		k.GET("/document", h.GetDocument)
		k.GET("/badge.png", h.GetBadge)
	}

	r.NoRoute(mw.SPAFallback(staticDir, "/kiosk/"))
	return r
}
