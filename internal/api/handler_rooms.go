package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitor-kiosk/internal/model"
)

// GetRoomStatus handles GET /api/room-status for the configured room.
func (h *Handler) GetRoomStatus(c *gin.Context) {
	active, err := h.store.ActiveBookings(c.Request.Context(), h.room.Name, h.now())
	if err != nil {
		h.log.Error("failed to load room status", zap.String("room", h.room.Name), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.NewRoomStatus(h.room.Name, active))
}

// GetTodayBookings handles GET /api/room-bookings/today.
func (h *Handler) GetTodayBookings(c *gin.Context) {
	now := h.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	bookings, err := h.store.BookingsBetween(c.Request.Context(), from, to)
	if err != nil {
		h.log.Error("failed to load today's bookings", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}
