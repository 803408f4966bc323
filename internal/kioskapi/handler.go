// Package kioskapi exposes the kiosk controller to the page running on the
// lobby screen.
package kioskapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitor-kiosk/internal/gateway"
	"visitor-kiosk/internal/kiosk"
)

// Controller is the part of the kiosk controller the page drives.
type Controller interface {
	Select(visitorID int64) error
	Cancel() error
	Accept(ctx context.Context) error
	Document() ([]byte, error)
	Snapshot() kiosk.View
	Subscribe() (<-chan struct{}, func())
}

// BadgeSource returns the most recently rendered badge.
type BadgeSource interface {
	Last() []byte
}

// Handler holds the dependencies for the kiosk handlers.
type Handler struct {
	ctrl   Controller
	badges BadgeSource
	hub    *Hub
	log    *zap.Logger
}

// NewHandler creates a new kiosk handler.
func NewHandler(ctrl Controller, badges BadgeSource, hub *Hub, log *zap.Logger) *Handler {
	return &Handler{ctrl: ctrl, badges: badges, hub: hub, log: log}
}

// Publish pushes a fresh view to the hub on every controller change and once
// per tick, so the clock advances, until ctx is done.
func (h *Handler) Publish(ctx context.Context, tick time.Duration) {
	changes, unsubscribe := h.ctrl.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
		case <-ticker.C:
		}
		h.hub.Broadcast(h.ctrl.Snapshot())
	}
}

// GetState returns the current view.
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

// Stream upgrades to a websocket carrying every view change.
func (h *Handler) Stream(c *gin.Context) {
	h.hub.Handle(c, h.ctrl.Snapshot())
}

// Select starts the check-in of a pending visitor.
func (h *Handler) Select(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visitor ID"})
		return
	}
	if err := h.ctrl.Select(id); err != nil {
		h.abortWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.ctrl.Snapshot())
}

// Cancel discards the current selection.
func (h *Handler) Cancel(c *gin.Context) {
	if err := h.ctrl.Cancel(); err != nil {
		h.abortWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

// Accept stamps the document and the check-in of the selected visitor.
func (h *Handler) Accept(c *gin.Context) {
	if err := h.ctrl.Accept(c.Request.Context()); err != nil {
		h.abortWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ctrl.Snapshot())
}

// GetDocument serves the document loaded for the current selection.
func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.ctrl.Document()
	if err != nil {
		h.abortWorkflowError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=documento.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", doc)
}

// GetBadge serves the last rendered badge for preview.
func (h *Handler) GetBadge(c *gin.Context) {
	img := h.badges.Last()
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no badge printed yet"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", img)
}

func (h *Handler) abortWorkflowError(c *gin.Context, err error) {
	var stepErr *kiosk.StepError
	switch {
	case errors.Is(err, kiosk.ErrUnknownVisitor), errors.Is(err, gateway.ErrDocumentMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, kiosk.ErrBusy), errors.Is(err, kiosk.ErrNotUnlocked), errors.Is(err, kiosk.ErrNoSelection):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &stepErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "step": stepErr.Step})
	default:
		h.log.Error("unexpected kiosk error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
