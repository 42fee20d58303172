package models

import "gorm.io/gorm"

type UserProfile struct {
	gorm.Model

	UserID      uint `gorm:"not null;uniqueIndex"`
	PhoneNumber string
	City        string

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
