package model

import "time"

// RoomStatus is the derived occupancy of the configured room.
type RoomStatus struct {
	IsOccupied     bool          `json:"isOccupied"`
	CurrentBooking *RoomBooking  `json:"currentBooking"`
	NextFreeTime   *time.Time    `json:"nextFreeTime"`
	AllBookings    []RoomBooking `json:"allBookings"`
	RoomName       string        `json:"roomName"`
}

// NewRoomStatus derives the status of room from its bookings active at the
// current instant, ordered by start time.
func NewRoomStatus(room string, active []RoomBooking) RoomStatus {
	status := RoomStatus{
		RoomName:    room,
		AllBookings: active,
	}
	if status.AllBookings == nil {
		status.AllBookings = []RoomBooking{}
	}
	if len(active) > 0 {
		current := active[0]
		end := current.EndTime
		status.IsOccupied = true
		status.CurrentBooking = &current
		status.NextFreeTime = &end
	}
	return status
}
