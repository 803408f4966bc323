package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"visitor-kiosk/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionStore is the part of the store the workers need.
type SubscriptionStore interface {
	SubscriptionsForSponsor(ctx context.Context, sponsor string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// CheckInNotice tells a sponsor that their visitor has arrived.
type CheckInNotice struct {
	VisitorID   int64
	GuestName   string
	CompanyName string
	Sponsor     string
}

// Message renders the push payload.
func (n CheckInNotice) Message() string {
	if n.CompanyName == "" {
		return fmt.Sprintf("%s has checked in at reception.", n.GuestName)
	}
	return fmt.Sprintf("%s (%s) has checked in at reception.", n.GuestName, n.CompanyName)
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan CheckInNotice
	store   SubscriptionStore
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, store SubscriptionStore, webpushOptions *webpush.Options, log *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan CheckInNotice, size*8),
		store:   store,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug("notification worker started", zap.Int("worker", id))
	for {
		select {
		case notice := <-wp.jobs:
			wp.notifySponsor(ctx, notice)
		case <-ctx.Done():
			wp.log.Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a notice without blocking the caller. It reports false when
// the queue is full and the notice was dropped.
func (wp *WorkerPool) Dispatch(notice CheckInNotice) bool {
	if notice.Sponsor == "" {
		return false
	}
	select {
	case wp.jobs <- notice:
		return true
	default:
		wp.log.Warn("notification queue full, dropping notice", zap.Int64("visitor_id", notice.VisitorID))
		return false
	}
}

func (wp *WorkerPool) notifySponsor(ctx context.Context, notice CheckInNotice) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.Error("notification worker recovered from panic", zap.Any("panic", r))
		}
	}()

	subscriptions, err := wp.store.SubscriptionsForSponsor(ctx, notice.Sponsor)
	if err != nil {
		wp.log.Error("failed to fetch subscriptions", zap.String("sponsor", notice.Sponsor), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	wp.log.Info("notifying sponsor",
		zap.String("sponsor", notice.Sponsor),
		zap.Int64("visitor_id", notice.VisitorID),
		zap.Int("subscriptions", len(subscriptions)))

	payload := []byte(notice.Message())
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Warn("failed to send notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Warn("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
