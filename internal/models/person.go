package models

import "gorm.io/gorm"

// Person is one node of a tree. Dates are kept as free text, the way
// the canvas editor submits them.
type Person struct {
	gorm.Model

	TreeID         uint `gorm:"not null;index"`
	FirstName      string
	LastName       string
	MiddleName     string
	MaidenName     string
	Gender         string
	BirthDate      string
	BirthPlace     string
	DeathDate      string
	DeathPlace     string
	IsAlive        bool `gorm:"not null;default:true"`
	Occupation     string
	Bio            string
	HistoryContext string
	PositionX      float64
	PositionY      float64
}

func (Person) TableName() string {
	return "persons"
}
