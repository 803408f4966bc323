package model

import "time"

// PushSubscription holds a browser push subscription following a sponsor, who
// is notified when one of their visitors checks in.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	Sponsor   string    `gorm:"size:256;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
