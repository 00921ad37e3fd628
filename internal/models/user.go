package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Email         string `gorm:"uniqueIndex;not null"`
	PasswordHash  string
	DisplayName   string
	AvatarURL     string
	EmailVerified bool `gorm:"not null;default:false"`

	// Relationships
	Sessions  []Session      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Providers []AuthProvider `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Trees     []Tree         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
