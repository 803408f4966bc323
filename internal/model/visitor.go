package model

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// Visitor is a registered guest. Records are created by an external
// registration process; this system only stamps CheckIn and DocAcceptedDate.
type Visitor struct {
	VisitorID       int64     `gorm:"primaryKey" json:"VisitorId"`
	CompanyName     string    `gorm:"size:256" json:"CompanyName"`
	GuestName       string    `gorm:"size:256;not null" json:"GuestName"`
	StartVisit      time.Time `json:"StartVisit"`
	EndVisit        time.Time `json:"EndVisit"`
	SponsorGuy      string    `gorm:"size:256" json:"SponsorGuy"`
	CheckIn         null.Time `json:"CheckIn"`
	DocAcceptedDate null.Time `json:"DocAcceptedDate"`
	PhotoPath       string    `gorm:"size:512" json:"PhotoPath,omitempty"`

	// Visibility window, distinct from the visit itself.
	ShowFrom  time.Time `gorm:"index;not null" json:"-"`
	ShowUntil time.Time `gorm:"not null" json:"-"`
}

// Pending reports whether the visitor has not checked in yet.
func (v Visitor) Pending() bool {
	return !v.CheckIn.Valid
}

// VisibleAt reports whether t falls within the visitor's visibility window.
func (v Visitor) VisibleAt(t time.Time) bool {
	return !t.Before(v.ShowFrom) && !t.After(v.ShowUntil)
}
