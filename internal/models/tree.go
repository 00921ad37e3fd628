package models

import "gorm.io/gorm"

type Tree struct {
	gorm.Model

	UserID      uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string

	// Relationships
	Owner         User           `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Persons       []Person       `gorm:"foreignKey:TreeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Relationships []Relationship `gorm:"foreignKey:TreeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
