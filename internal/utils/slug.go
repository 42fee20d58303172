package utils

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// UniqueSlug derives a URL slug from name and probes the model's table until
// a free value is found: base, base-2, base-3, ... excludeID is skipped so
// an edited row keeps its own slug.
func UniqueSlug(db *gorm.DB, model interface{}, name string, excludeID uint) (string, error) {
	base := slug.Make(name)
	candidate := base

	for counter := 1; ; counter++ {
		var count int64

		err := db.Model(model).
			Where("slug = ? AND id != ?", candidate, excludeID).
			Count(&count).Error

		if err != nil {
			return "", err
		}

		if count == 0 {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, counter+1)
	}
}
