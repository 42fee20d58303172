package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminLog records every mutation performed through the admin endpoints.
type AdminLog struct {
	gorm.Model

	UserID     uint   `gorm:"not null;index"`
	Action     string `gorm:"not null"` // "create", "update", "delete"
	ObjectType string `gorm:"not null"` // "category", "listing", ...
	ObjectID   uint   `gorm:"not null"`
	Changes    datatypes.JSON

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
