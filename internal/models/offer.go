package models

import "gorm.io/gorm"

type Offer struct {
	gorm.Model

	ListingID   uint    `gorm:"not null;index"`
	OfferedByID uint    `gorm:"not null;index"`
	Amount      float64 `gorm:"type:decimal(10,2);not null"`
	Message     string
	Status      string `gorm:"not null;default:pending"` // "pending", "accepted", "rejected"

	// Relationships
	Listing   Listing `gorm:"foreignKey:ListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OfferedBy User    `gorm:"foreignKey:OfferedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
