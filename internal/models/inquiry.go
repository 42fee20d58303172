package models

import "gorm.io/gorm"

type Inquiry struct {
	gorm.Model

	ListingID uint   `gorm:"not null;index"`
	SenderID  *uint  `gorm:"index"` // null for anonymous visitors
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Message   string `gorm:"not null"`

	// Relationships
	Listing Listing `gorm:"foreignKey:ListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Sender  *User   `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
