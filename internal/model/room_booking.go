package model

import "time"

// BookingStatusConfirmed is the only booking status the kiosk cares about.
const BookingStatusConfirmed = "Confirmed"

// RoomBooking is a meeting room reservation, read-only for this system.
type RoomBooking struct {
	BookingID     int64     `gorm:"primaryKey" json:"BookingId"`
	RoomName      string    `gorm:"size:128;index;not null" json:"RoomName"`
	MeetingTitle  string    `gorm:"size:256" json:"MeetingTitle"`
	StartTime     time.Time `gorm:"index;not null" json:"StartTime"`
	EndTime       time.Time `gorm:"not null" json:"EndTime"`
	Organizer     string    `gorm:"size:256" json:"Organizer"`
	BookingStatus string    `gorm:"size:32;not null" json:"-"`
}

// Contains reports whether t falls within the booking.
func (b RoomBooking) Contains(t time.Time) bool {
	return !t.Before(b.StartTime) && !t.After(b.EndTime)
}
