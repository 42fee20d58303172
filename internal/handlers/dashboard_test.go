package handlers_test

import (
	"net/http"
	"testing"

	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/types"
	"github.com/stretchr/testify/require"
)

func TestDashboardAggregation(t *testing.T) {
	r := setupTest(t)

	seller, sellerToken := createUser(t, "Alice", "alice@example.com", false)
	buyer, buyerToken := createUser(t, "Bob", "bob@example.com", false)
	other, _ := createUser(t, "Carol", "carol@example.com", false)
	category := createCategory(t, "Electronics")

	mine := createListing(t, seller, category, "Old Phone", 50, types.ListingActive)
	theirs := createListing(t, other, category, "Spare Laptop", 300, types.ListingActive)

	// an offer on the seller's listing, and one the seller made elsewhere
	require.NoError(t, db.DB.Create(&models.Offer{
		ListingID: mine.ID, OfferedByID: buyer.ID, Amount: 40, Status: types.OfferPending,
	}).Error)
	require.NoError(t, db.DB.Create(&models.Offer{
		ListingID: theirs.ID, OfferedByID: seller.ID, Amount: 250, Status: types.OfferPending,
	}).Error)

	w := doRequest(t, r, http.MethodGet, "/dashboard/", nil, sellerToken)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Len(t, body["my_listings"].([]interface{}), 1)
	require.Len(t, body["offers_received"].([]interface{}), 1)
	require.Len(t, body["offers_made"].([]interface{}), 1)

	received := body["offers_received"].([]interface{})[0].(map[string]interface{})
	require.EqualValues(t, 40, received["amount"])
	require.Equal(t, "Old Phone", received["listing_title"])

	// the buyer sees the mirror image
	w = doRequest(t, r, http.MethodGet, "/dashboard/", nil, buyerToken)
	require.Equal(t, http.StatusOK, w.Code)

	body = decodeBody(t, w)
	require.Len(t, body["my_listings"].([]interface{}), 0)
	require.Len(t, body["offers_received"].([]interface{}), 0)
	require.Len(t, body["offers_made"].([]interface{}), 1)
}

func TestDashboardCreatesProfileOnFirstAccess(t *testing.T) {
	r := setupTest(t)

	user, token := createUser(t, "Alice", "alice@example.com", false)

	var count int64
	require.NoError(t, db.DB.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	w := doRequest(t, r, http.MethodGet, "/dashboard/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.DB.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProfileUpdate(t *testing.T) {
	r := setupTest(t)

	user, token := createUser(t, "Alice", "alice@example.com", false)

	w := doRequest(t, r, http.MethodPost, "/dashboard/", map[string]interface{}{
		"phone_number": "555-0100",
		"city":         "Springfield",
	}, token)

	require.Equal(t, http.StatusOK, w.Code)

	var profile models.UserProfile
	require.NoError(t, db.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	require.Equal(t, "555-0100", profile.PhoneNumber)
	require.Equal(t, "Springfield", profile.City)

	// a second save updates the same row
	w = doRequest(t, r, http.MethodPost, "/dashboard/", map[string]interface{}{
		"phone_number": "555-0101",
		"city":         "Shelbyville",
	}, token)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, db.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	require.Equal(t, "Shelbyville", profile.City)
}

func TestDashboardRequiresAuth(t *testing.T) {
	r := setupTest(t)

	w := doRequest(t, r, http.MethodGet, "/dashboard/", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
