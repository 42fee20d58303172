package utils

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/orx-dev/orx/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.User{}, &models.Category{}, &models.Listing{}))

	return gormDB
}

func seedListing(t *testing.T, gormDB *gorm.DB, title, slugValue string) models.Listing {
	t.Helper()

	listing := models.Listing{
		Title:       title,
		Slug:        slugValue,
		Description: "test",
		Price:       10,
		CategoryID:  1,
		Condition:   "good",
		Location:    "here",
		Status:      "active",
		OwnerID:     1,
	}
	require.NoError(t, gormDB.Create(&listing).Error)

	return listing
}

func TestUniqueSlugBase(t *testing.T) {
	gormDB := openTestDB(t)

	got, err := UniqueSlug(gormDB, &models.Listing{}, "Old Phone!", 0)
	require.NoError(t, err)
	require.Equal(t, "old-phone", got)
}

func TestUniqueSlugProbesSuffixes(t *testing.T) {
	gormDB := openTestDB(t)

	seedListing(t, gormDB, "Old Phone", "old-phone")

	got, err := UniqueSlug(gormDB, &models.Listing{}, "Old Phone", 0)
	require.NoError(t, err)
	require.Equal(t, "old-phone-2", got)

	seedListing(t, gormDB, "Old Phone", "old-phone-2")

	got, err = UniqueSlug(gormDB, &models.Listing{}, "Old Phone", 0)
	require.NoError(t, err)
	require.Equal(t, "old-phone-3", got)
}

func TestUniqueSlugSkipsOwnRow(t *testing.T) {
	gormDB := openTestDB(t)

	listing := seedListing(t, gormDB, "Old Phone", "old-phone")

	got, err := UniqueSlug(gormDB, &models.Listing{}, "Old Phone", listing.ID)
	require.NoError(t, err)
	require.Equal(t, "old-phone", got, "a row keeps its own slug on re-save")
}
