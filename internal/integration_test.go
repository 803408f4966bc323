package internal

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/guregu/null.v4"
	"gorm.io/gorm"

	"visitor-kiosk/config"
	"visitor-kiosk/internal/api"
	"visitor-kiosk/internal/badge"
	"visitor-kiosk/internal/db"
	"visitor-kiosk/internal/gateway"
	"visitor-kiosk/internal/kiosk"
	"visitor-kiosk/internal/model"
	"visitor-kiosk/internal/poller"
	"visitor-kiosk/internal/printing"
	"visitor-kiosk/internal/store"
)

// TestCheckInLifecycle drives a visitor from the kiosk picker to a printed
// badge against a real gateway backed by an in-memory database.
func TestCheckInLifecycle(t *testing.T) {
	// --- Test Setup ---
	logger := zap.NewNop()
	now := time.Now()

	testDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}, logger)
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	visitors := []model.Visitor{
		{VisitorID: 42, GuestName: "A. Rossi", CompanyName: "Acme", SponsorGuy: "M. Bianchi",
			ShowFrom: now.Add(-time.Hour), ShowUntil: now.Add(time.Hour)},
		{VisitorID: 43, GuestName: "I. Popescu", CompanyName: "Globex", CheckIn: null.TimeFrom(now.Add(-10 * time.Minute)),
			ShowFrom: now.Add(-time.Hour), ShowUntil: now.Add(time.Hour)},
		{VisitorID: 44, GuestName: "Yesterday", ShowFrom: now.Add(-48 * time.Hour), ShowUntil: now.Add(-24 * time.Hour)},
	}
	require.NoError(t, testDB.Create(&visitors).Error)
	require.NoError(t, testDB.Create(&model.VisitorDoc{DocGeneral: []byte("%PDF-1.4"), DateIn: now.Add(-24 * time.Hour)}).Error)
	require.NoError(t, testDB.Create(&model.RoomBooking{
		BookingID: 1, RoomName: "Board Room", MeetingTitle: "Budget", Organizer: "L. Verdi",
		StartTime: now.Add(-30 * time.Minute), EndTime: now.Add(30 * time.Minute), BookingStatus: model.BookingStatusConfirmed,
	}).Error)

	handler := api.NewHandler(store.NewGormStore(testDB), config.Room{Name: "Board Room"}, "", nil, "", logger)
	router := api.NewRouter(handler, api.RouterOptions{RateLimit: rate.Inf, RateBurst: 1, CacheTTL: time.Second}, logger)
	server := httptest.NewServer(router)
	defer server.Close()

	spoolDir := t.TempDir()
	renderer, err := badge.NewRenderer(100, "")
	require.NoError(t, err)
	sequencer := printing.NewSequencer(renderer, &printing.SpoolPrinter{Dir: spoolDir}, 10*time.Millisecond, logger)
	defer sequencer.Stop()

	client := gateway.NewClient(server.URL, "", 5*time.Second, logger)
	readModels := poller.New(client, time.Hour, 0, logger)
	controller := kiosk.New(client, readModels, sequencer, kiosk.Options{
		Gate:          20 * time.Millisecond,
		WelcomePeriod: time.Hour,
		RoomPeriod:    time.Hour,
		VisitorPeriod: time.Hour,
		MediaPeriod:   time.Hour,
	}, logger)
	readModels.OnUpdate(controller.ModelsUpdated)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	controller.Start(ctx)
	defer controller.Stop()

	// --- Step 1: the kiosk loads its read models ---
	t.Run("Initial Poll", func(t *testing.T) {
		readModels.Refresh(ctx, poller.Visitors, poller.Pending, poller.Room, poller.MediaFiles)
		readModels.Wait()

		assert.Len(t, readModels.Visitors(), 2, "only today's visitors are visible")
		pending := readModels.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, int64(42), pending[0].VisitorID)

		room := readModels.RoomStatus()
		require.NotNil(t, room)
		assert.True(t, room.IsOccupied)
		assert.Equal(t, "Budget", room.CurrentBooking.MeetingTitle)

		view := controller.Snapshot()
		assert.Equal(t, kiosk.ModeVisitors, view.Mode)
		require.NotNil(t, view.Picker)
		assert.Equal(t, 1, view.Picker.Count)
	})

	// --- Step 2: select, wait for the gate, accept ---
	t.Run("Select And Accept", func(t *testing.T) {
		require.NoError(t, controller.Select(42))
		require.Eventually(t, func() bool { return controller.State() == kiosk.Unlocked }, 2*time.Second, 5*time.Millisecond)

		doc, err := controller.Document()
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), doc)

		require.NoError(t, controller.Accept(ctx))
		assert.Equal(t, kiosk.Idle, controller.State())
	})

	// --- Step 3: the database carries both stamps, in order ---
	t.Run("Stamps Persisted", func(t *testing.T) {
		var stored model.Visitor
		require.NoError(t, testDB.First(&stored, 42).Error)
		require.True(t, stored.DocAcceptedDate.Valid)
		require.True(t, stored.CheckIn.Valid)
		assert.False(t, stored.CheckIn.Time.Before(stored.DocAcceptedDate.Time))

		readModels.Wait()
		assert.Empty(t, readModels.Pending(), "the refresh after check-in empties the picker")
	})

	// --- Step 4: exactly one badge reaches the spool ---
	t.Run("Badge Printed", func(t *testing.T) {
		require.Eventually(t, func() bool {
			matches, _ := filepath.Glob(filepath.Join(spoolDir, "badge-42-*.png"))
			return len(matches) == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.NotNil(t, sequencer.Last())
	})

	assertNoStrayRecords(t, testDB)
}

func assertNoStrayRecords(t *testing.T, testDB *gorm.DB) {
	t.Helper()
	var checkedIn int64
	testDB.Model(&model.Visitor{}).Where("check_in IS NOT NULL").Count(&checkedIn)
	assert.Equal(t, int64(2), checkedIn, "only visitor 42 was stamped by the kiosk")
}
