package api

import (
	"time"

	"go.uber.org/zap"

	"visitor-kiosk/config"
	"visitor-kiosk/internal/notification"
	"visitor-kiosk/internal/store"
)

// Notifier queues sponsor notifications.
type Notifier interface {
	Dispatch(notice notification.CheckInNotice) bool
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store          store.Store
	room           config.Room
	mediaDir       string
	notifier       Notifier
	vapidPublicKey string
	log            *zap.Logger
	now            func() time.Time
}

// NewHandler creates a new API handler. notifier may be nil when push is disabled.
func NewHandler(s store.Store, room config.Room, mediaDir string, notifier Notifier, vapidPublicKey string, log *zap.Logger) *Handler {
	return &Handler{
		store:          s,
		room:           room,
		mediaDir:       mediaDir,
		notifier:       notifier,
		vapidPublicKey: vapidPublicKey,
		log:            log,
		now:            time.Now,
	}
}

type actionResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
