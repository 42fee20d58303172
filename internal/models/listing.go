package models

import "gorm.io/gorm"

type Listing struct {
	gorm.Model

	Title       string  `gorm:"not null"`
	Slug        string  `gorm:"uniqueIndex;not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"type:decimal(10,2);not null"`
	CategoryID  uint    `gorm:"not null;index"`
	Condition   string  `gorm:"not null;default:good"` // "new", "like_new", "good", "fair"
	Location    string  `gorm:"not null"`
	ImageURL    string
	Status      string `gorm:"not null;default:active;index"` // "active", "reserved", "sold"
	OwnerID     uint   `gorm:"not null;index"`

	// Relationships
	Category  Category  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Offers    []Offer   `gorm:"foreignKey:ListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Inquiries []Inquiry `gorm:"foreignKey:ListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
