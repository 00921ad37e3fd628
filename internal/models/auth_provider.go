package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuthProvider links a federated identity to a local user. At most one
// local user per (provider, provider user id).
type AuthProvider struct {
	gorm.Model

	UserID         uint           `gorm:"not null;index"`
	Provider       string         `gorm:"not null;uniqueIndex:idx_provider_identity"`
	ProviderUserID string         `gorm:"not null;uniqueIndex:idx_provider_identity"`
	ProviderEmail  string
	ProviderData   datatypes.JSON

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
