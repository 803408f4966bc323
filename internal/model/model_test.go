package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v4"
)

func TestMediaFiles(t *testing.T) {
	assert.True(t, IsMediaFile("lobby.JPG"))
	assert.True(t, IsMediaFile("intro.webm"))
	assert.False(t, IsMediaFile("notes.txt"))
	assert.False(t, IsMediaFile("jpg"))

	assert.True(t, IsVideoFile("intro.MP4"))
	assert.False(t, IsVideoFile("lobby.png"))
}

func TestVisitor_Window(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	v := Visitor{ShowFrom: now.Add(-time.Hour), ShowUntil: now.Add(time.Hour)}

	assert.True(t, v.VisibleAt(now))
	assert.True(t, v.VisibleAt(v.ShowFrom))
	assert.False(t, v.VisibleAt(now.Add(2*time.Hour)))
	assert.True(t, v.Pending())

	v.CheckIn = null.TimeFrom(now)
	assert.False(t, v.Pending())
}

func TestNewRoomStatus(t *testing.T) {
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	booking := RoomBooking{BookingID: 1, RoomName: "Board Room", StartTime: start, EndTime: start.Add(time.Hour)}

	free := NewRoomStatus("Board Room", nil)
	assert.False(t, free.IsOccupied)
	assert.Nil(t, free.CurrentBooking)
	assert.Nil(t, free.NextFreeTime)
	assert.NotNil(t, free.AllBookings)

	busy := NewRoomStatus("Board Room", []RoomBooking{booking})
	assert.True(t, busy.IsOccupied)
	assert.Equal(t, int64(1), busy.CurrentBooking.BookingID)
	assert.Equal(t, booking.EndTime, *busy.NextFreeTime)
	assert.True(t, booking.Contains(start.Add(30*time.Minute)))
}
