package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"visitor-kiosk/internal/model"
)

// Store defines the interface for all visitor store operations.
type Store interface {
	VisibleVisitors(ctx context.Context, now time.Time) ([]model.Visitor, error)
	PendingVisitors(ctx context.Context, now time.Time) ([]model.Visitor, error)
	CurrentDocument(ctx context.Context) ([]byte, error)
	AcceptDocument(ctx context.Context, visitorID int64, now time.Time) error
	CheckIn(ctx context.Context, visitorID int64, now time.Time) (model.Visitor, error)
	ActiveBookings(ctx context.Context, room string, now time.Time) ([]model.RoomBooking, error)
	BookingsBetween(ctx context.Context, from, to time.Time) ([]model.RoomBooking, error)

	PutSubscription(ctx context.Context, sub model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForSponsor(ctx context.Context, sponsor string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// VisibleVisitors returns the visitors whose visibility window contains now.
func (s *gormStore) VisibleVisitors(ctx context.Context, now time.Time) ([]model.Visitor, error) {
	visitors := []model.Visitor{}
	err := s.visible(ctx, now).Find(&visitors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query visible visitors: %w", err)
	}
	return visitors, nil
}

// PendingVisitors returns the visible visitors that have not checked in yet.
func (s *gormStore) PendingVisitors(ctx context.Context, now time.Time) ([]model.Visitor, error) {
	visitors := []model.Visitor{}
	err := s.visible(ctx, now).Where("check_in IS NULL").Find(&visitors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending visitors: %w", err)
	}
	return visitors, nil
}

func (s *gormStore) visible(ctx context.Context, now time.Time) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Select(visitorColumns).
		Where("show_from <= ? AND show_until >= ?", now, now).
		Order("show_from")
}

// CurrentDocument returns the content of the document in force.
func (s *gormStore) CurrentDocument(ctx context.Context) ([]byte, error) {
	var doc model.VisitorDoc
	err := s.db.WithContext(ctx).
		Where("date_out IS NULL").
		Order("date_in DESC").
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor document: %w", err)
	}
	if len(doc.DocGeneral) == 0 {
		return nil, ErrDocumentEmpty
	}
	return doc.DocGeneral, nil
}

// AcceptDocument stamps the document acceptance time of a visitor.
func (s *gormStore) AcceptDocument(ctx context.Context, visitorID int64, now time.Time) error {
	return s.stamp(ctx, visitorID, "doc_accepted_date", now)
}

// CheckIn stamps the check-in time of a visitor and returns the updated record.
func (s *gormStore) CheckIn(ctx context.Context, visitorID int64, now time.Time) (model.Visitor, error) {
	if err := s.stamp(ctx, visitorID, "check_in", now); err != nil {
		return model.Visitor{}, err
	}

	var visitor model.Visitor
	err := s.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Select(visitorColumns).
		Where("visitor_id = ?", visitorID).
		Take(&visitor).Error
	if err != nil {
		return model.Visitor{}, fmt.Errorf("failed to reload visitor %d: %w", visitorID, err)
	}
	return visitor, nil
}

func (s *gormStore) stamp(ctx context.Context, visitorID int64, column string, now time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Where("visitor_id = ?", visitorID).
		Update(column, now)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s for visitor %d: %w", column, visitorID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVisitorNotFound
	}
	return nil
}

// ActiveBookings returns the confirmed bookings of room that contain now.
func (s *gormStore) ActiveBookings(ctx context.Context, room string, now time.Time) ([]model.RoomBooking, error) {
	bookings := []model.RoomBooking{}
	err := s.db.WithContext(ctx).
		Where("room_name = ? AND booking_status = ?", room, model.BookingStatusConfirmed).
		Where("start_time <= ? AND end_time >= ?", now, now).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for room %q: %w", room, err)
	}
	return bookings, nil
}

// BookingsBetween returns the confirmed bookings of every room overlapping [from, to).
func (s *gormStore) BookingsBetween(ctx context.Context, from, to time.Time) ([]model.RoomBooking, error) {
	bookings := []model.RoomBooking{}
	err := s.db.WithContext(ctx).
		Where("booking_status = ?", model.BookingStatusConfirmed).
		Where("start_time < ? AND end_time >= ?", to, from).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return bookings, nil
}

// PutSubscription creates or replaces a push subscription.
func (s *gormStore) PutSubscription(ctx context.Context, sub model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "sponsor"}),
	}).Create(&sub).Error
}

// GetSubscription returns the subscription registered for endpoint.
func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sub, ErrSubscriptionNotFound
	}
	return sub, err
}

// DeleteSubscription removes the subscription registered for endpoint.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

// SubscriptionsForSponsor returns every subscription following sponsor.
func (s *gormStore) SubscriptionsForSponsor(ctx context.Context, sponsor string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("sponsor = ?", sponsor).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to query subscriptions for sponsor %q: %w", sponsor, err)
	}
	return subs, nil
}
