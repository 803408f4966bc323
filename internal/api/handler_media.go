package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitor-kiosk/internal/model"
)

// GetMediaList handles GET /api/media-list. An unreadable directory yields an
// empty list so the kiosk falls back to its empty state.
func (h *Handler) GetMediaList(c *gin.Context) {
	files := []string{}

	entries, err := os.ReadDir(h.mediaDir)
	if err != nil {
		h.log.Warn("failed to read media directory", zap.String("dir", h.mediaDir), zap.Error(err))
		c.JSON(http.StatusOK, files)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !model.IsMediaFile(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	c.JSON(http.StatusOK, files)
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": h.now(),
		"server":    "Visitor Management System",
	})
}
