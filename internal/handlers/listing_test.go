package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/types"
	"github.com/stretchr/testify/require"
)

func listingPayload(category models.Category, title string, price float64) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "Barely used",
		"price":       price,
		"category_id": category.ID,
		"condition":   "good",
		"location":    "Springfield",
	}
}

func TestCreateListingRejectsNonPositivePrice(t *testing.T) {
	r := setupTest(t)

	_, token := createUser(t, "Alice", "alice@example.com", false)
	category := createCategory(t, "Electronics")

	for _, price := range []float64{0, -5} {
		w := doRequest(t, r, http.MethodPost, "/listings/new/", listingPayload(category, "Old Phone", price), token)
		require.Equal(t, http.StatusBadRequest, w.Code, "price %v must be rejected", price)
	}

	var count int64
	require.NoError(t, db.DB.Model(&models.Listing{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreateListingRequiresAuth(t *testing.T) {
	r := setupTest(t)

	category := createCategory(t, "Electronics")

	w := doRequest(t, r, http.MethodPost, "/listings/new/", listingPayload(category, "Old Phone", 50), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateListingAssignsOwnerAndSlug(t *testing.T) {
	r := setupTest(t)

	user, token := createUser(t, "Alice", "alice@example.com", false)
	category := createCategory(t, "Electronics")

	w := doRequest(t, r, http.MethodPost, "/listings/new/", listingPayload(category, "Old Phone", 50), token)
	require.Equal(t, http.StatusCreated, w.Code)

	var listing models.Listing
	require.NoError(t, db.DB.Where("slug = ?", "old-phone").First(&listing).Error)
	require.Equal(t, user.ID, listing.OwnerID)
	require.Equal(t, types.ListingActive, listing.Status)
}

func TestSlugCollisionGetsNumericSuffix(t *testing.T) {
	r := setupTest(t)

	_, token := createUser(t, "Alice", "alice@example.com", false)
	category := createCategory(t, "Electronics")

	expected := []string{"old-phone", "old-phone-2", "old-phone-3"}

	for range expected {
		w := doRequest(t, r, http.MethodPost, "/listings/new/", listingPayload(category, "Old Phone", 50), token)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var slugs []string
	require.NoError(t, db.DB.Model(&models.Listing{}).Order("id").Pluck("slug", &slugs).Error)
	require.Equal(t, expected, slugs)
}

func TestBrowseExcludesSoldListings(t *testing.T) {
	r := setupTest(t)

	user, _ := createUser(t, "Alice", "alice@example.com", false)
	category := createCategory(t, "Electronics")

	createListing(t, user, category, "Old Phone", 50, types.ListingActive)
	createListing(t, user, category, "Spare Laptop", 300, types.ListingReserved)
	createListing(t, user, category, "Broken Tablet", 20, types.ListingSold)

	w := doRequest(t, r, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	listings := body["listings"].([]interface{})
	require.Len(t, listings, 2)

	for _, item := range listings {
		status := item.(map[string]interface{})["status"].(string)
		require.NotEqual(t, types.ListingSold, status)
	}
}

func TestBrowseSearchMatchesTitleDescriptionLocation(t *testing.T) {
	r := setupTest(t)

	user, _ := createUser(t, "Alice", "alice@example.com", false)
	category := createCategory(t, "Electronics")

	createListing(t, user, category, "Old Phone", 50, types.ListingActive)

	w := doRequest(t, r, http.MethodGet, "/?q=phone", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["listings"].([]interface{}), 1)

	w = doRequest(t, r, http.MethodGet, "/?q=PHONE", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["listings"].([]interface{}), 1, "search must be case-insensitive")

	w = doRequest(t, r, http.MethodGet, "/?q=laptop", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["listings"].([]interface{}), 0)

	// location matches too
	w = doRequest(t, r, http.MethodGet, "/?q=springfield", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["listings"].([]interface{}), 1)
}

func TestBrowseFiltersByCategorySlug(t *testing.T) {
	r := setupTest(t)

	user, _ := createUser(t, "Alice", "alice@example.com", false)
	electronics := createCategory(t, "Electronics")
	furniture := createCategory(t, "Furniture")

	createListing(t, user, electronics, "Old Phone", 50, types.ListingActive)
	createListing(t, user, furniture, "Oak Table", 120, types.ListingActive)

	w := doRequest(t, r, http.MethodGet, "/?category=furniture", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	listings := body["listings"].([]interface{})
	require.Len(t, listings, 1)
	require.Equal(t, "Oak Table", listings[0].(map[string]interface{})["title"])
}

func TestBrowsePaginatesAtTwelve(t *testing.T) {
	r := setupTest(t)

	user, _ := createUser(t, "Alice", "alice@example.com", false)
	category := createCategory(t, "Electronics")

	for i := 0; i < 15; i++ {
		createListing(t, user, category, fmt.Sprintf("Gadget %d", i), 10, types.ListingActive)
	}

	w := doRequest(t, r, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Len(t, body["listings"].([]interface{}), 12)
	require.EqualValues(t, 2, body["total_pages"])
	require.EqualValues(t, 15, body["total"])

	w = doRequest(t, r, http.MethodGet, "/?page=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody(t, w)["listings"].([]interface{}), 3)
}

func TestListingDetailNotFound(t *testing.T) {
	r := setupTest(t)

	w := doRequest(t, r, http.MethodGet, "/listings/no-such-thing/", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditListingOwnerOnly(t *testing.T) {
	r := setupTest(t)

	owner, ownerToken := createUser(t, "Alice", "alice@example.com", false)
	_, strangerToken := createUser(t, "Bob", "bob@example.com", false)
	category := createCategory(t, "Electronics")

	listing := createListing(t, owner, category, "Old Phone", 50, types.ListingActive)

	payload := listingPayload(category, "Old Phone", 45)

	w := doRequest(t, r, http.MethodPost, "/listings/"+listing.Slug+"/edit/", payload, strangerToken)
	require.Equal(t, http.StatusNotFound, w.Code, "non-owner edits look like a missing listing")

	w = doRequest(t, r, http.MethodGet, "/listings/"+listing.Slug+"/edit/", nil, strangerToken)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodPost, "/listings/"+listing.Slug+"/edit/", payload, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Listing
	require.NoError(t, db.DB.First(&updated, listing.ID).Error)
	require.EqualValues(t, 45, updated.Price)
	require.Equal(t, listing.Slug, updated.Slug, "slug survives edits")
}

func TestEditListingRevalidatesPrice(t *testing.T) {
	r := setupTest(t)

	owner, ownerToken := createUser(t, "Alice", "alice@example.com", false)
	category := createCategory(t, "Electronics")

	listing := createListing(t, owner, category, "Old Phone", 50, types.ListingActive)

	w := doRequest(t, r, http.MethodPost, "/listings/"+listing.Slug+"/edit/", listingPayload(category, "Old Phone", -1), ownerToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var unchanged models.Listing
	require.NoError(t, db.DB.First(&unchanged, listing.ID).Error)
	require.EqualValues(t, 50, unchanged.Price)
}
