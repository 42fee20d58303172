package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`

	// Relationships
	Profile   *UserProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Listings  []Listing    `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Offers    []Offer      `gorm:"foreignKey:OfferedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Inquiries []Inquiry    `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
