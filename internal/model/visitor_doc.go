package model

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// VisitorDoc holds a privacy document version. The document in force is the
// one without a DateOut.
type VisitorDoc struct {
	ID         int64     `gorm:"primaryKey"`
	DocGeneral []byte
	DateIn     time.Time `gorm:"not null"`
	DateOut    null.Time `gorm:"index"`
}
