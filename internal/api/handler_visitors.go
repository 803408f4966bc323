package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitor-kiosk/internal/notification"
	"visitor-kiosk/internal/store"
)

// GetVisitors handles GET /api/visitors.
func (h *Handler) GetVisitors(c *gin.Context) {
	visitors, err := h.store.VisibleVisitors(c.Request.Context(), h.now())
	if err != nil {
		h.log.Error("failed to load visitors", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, visitors)
}

// GetPendingVisitors handles GET /api/visitors/pending-checkin.
func (h *Handler) GetPendingVisitors(c *gin.Context) {
	visitors, err := h.store.PendingVisitors(c.Request.Context(), h.now())
	if err != nil {
		h.log.Error("failed to load pending visitors", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, visitors)
}

// GetDocument handles GET /api/visitor-document.
func (h *Handler) GetDocument(c *gin.Context) {
	content, err := h.store.CurrentDocument(c.Request.Context())
	switch {
	case errors.Is(err, store.ErrDocumentMissing), errors.Is(err, store.ErrDocumentEmpty):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Error("failed to load visitor document", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `inline; filename="visitor-document.pdf"`)
	c.Data(http.StatusOK, "application/pdf", content)
}

// AcceptDocument handles POST /api/visitors/accept-document/:id.
func (h *Handler) AcceptDocument(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}

	now := h.now()
	if err := h.store.AcceptDocument(c.Request.Context(), id, now); err != nil {
		h.abortStoreError(c, "failed to accept document", id, err)
		return
	}

	h.log.Info("document accepted", zap.Int64("visitor_id", id))
	c.JSON(http.StatusOK, actionResponse{Success: true, Message: "Document accepted", Timestamp: now})
}

// CheckIn handles POST /api/visitors/checkin/:id.
func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := visitorID(c)
	if !ok {
		return
	}

	now := h.now()
	visitor, err := h.store.CheckIn(c.Request.Context(), id, now)
	if err != nil {
		h.abortStoreError(c, "failed to check in visitor", id, err)
		return
	}

	h.log.Info("visitor checked in", zap.Int64("visitor_id", id), zap.String("guest", visitor.GuestName))
	if h.notifier != nil && visitor.SponsorGuy != "" {
		h.notifier.Dispatch(notification.CheckInNotice{
			VisitorID:   visitor.VisitorID,
			GuestName:   visitor.GuestName,
			CompanyName: visitor.CompanyName,
			Sponsor:     visitor.SponsorGuy,
		})
	}

	c.JSON(http.StatusOK, actionResponse{Success: true, Message: "Check-in completed", Timestamp: now})
}

func (h *Handler) abortStoreError(c *gin.Context, msg string, id int64, err error) {
	if errors.Is(err, store.ErrVisitorNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.log.Error(msg, zap.Int64("visitor_id", id), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func visitorID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid visitor ID"})
		return 0, false
	}
	return id, true
}
