package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model

	Name        string `gorm:"uniqueIndex;not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string

	// Listings keep the category alive: deletion is blocked while any reference it
	Listings []Listing `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
