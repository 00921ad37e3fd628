package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is an opaque bearer credential. Validity means the row exists
// and ExpiresAt is still in the future; rows are never pruned.
type Session struct {
	gorm.Model

	UserID       uint      `gorm:"not null;index"`
	SessionToken string    `gorm:"uniqueIndex;not null"`
	ExpiresAt    time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
