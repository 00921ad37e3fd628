package models

import "gorm.io/gorm"

const (
	RelationshipParent = "parent"
	RelationshipSpouse = "spouse"
)

// Relationship is a directed edge between two persons of the same tree.
type Relationship struct {
	gorm.Model

	TreeID           uint   `gorm:"not null;index"`
	SourcePersonID   uint   `gorm:"not null;uniqueIndex:idx_relationship_edge"`
	TargetPersonID   uint   `gorm:"not null;uniqueIndex:idx_relationship_edge"`
	RelationshipType string `gorm:"not null;uniqueIndex:idx_relationship_edge"`

	Source Person `gorm:"foreignKey:SourcePersonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Target Person `gorm:"foreignKey:TargetPersonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
