package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/utils"
	"gorm.io/gorm"
)

type ProfileRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number" binding:"omitempty,max=20"`
	City        string `json:"city" form:"city" binding:"omitempty,max=120"`
}

type ProfileSummary struct {
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
}

type DashboardResponse struct {
	MyListings        []ListingSummary `json:"my_listings"`
	OffersReceived    []OfferSummary   `json:"offers_received"`
	OffersMade        []OfferSummary   `json:"offers_made"`
	InquiriesReceived []InquirySummary `json:"inquiries_received"`
	Profile           ProfileSummary   `json:"profile"`
}

// getOrCreateProfile backs the dashboard's profile section. Accounts that
// predate the profile table get a row on first access.
func getOrCreateProfile(userID uint) (models.UserProfile, error) {
	var profile models.UserProfile

	err := db.DB.Where("user_id = ?", userID).First(&profile).Error

	if err == nil {
		return profile, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return profile, err
	}

	profile = models.UserProfile{UserID: userID}

	if err := db.DB.Create(&profile).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			err = db.DB.Where("user_id = ?", userID).First(&profile).Error
		}
		return profile, err
	}

	return profile, nil
}

// GetDashboard handles GET /dashboard/: the user's listings, offers received
// across all of them, offers they made elsewhere, inquiries received and
// their profile.
func GetDashboard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var myListings []models.Listing

	err = db.DB.Preload("Category").Preload("Owner").
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&myListings).Error

	if err != nil {
		log.Printf("Failed to retrieve listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	var offersReceived []models.Offer

	err = db.DB.Preload("Listing").Preload("OfferedBy").
		Select("offers.*").
		Joins("JOIN listings ON listings.id = offers.listing_id").
		Where("listings.owner_id = ?", userID).
		Order("offers.created_at DESC").
		Find(&offersReceived).Error

	if err != nil {
		log.Printf("Failed to retrieve received offers: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	var offersMade []models.Offer

	err = db.DB.Preload("Listing").Preload("OfferedBy").
		Where("offered_by_id = ?", userID).
		Order("created_at DESC").
		Find(&offersMade).Error

	if err != nil {
		log.Printf("Failed to retrieve made offers: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	var inquiriesReceived []models.Inquiry

	err = db.DB.Preload("Listing").
		Select("inquiries.*").
		Joins("JOIN listings ON listings.id = inquiries.listing_id").
		Where("listings.owner_id = ?", userID).
		Order("inquiries.created_at DESC").
		Find(&inquiriesReceived).Error

	if err != nil {
		log.Printf("Failed to retrieve inquiries: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	profile, err := getOrCreateProfile(userID)

	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	response := DashboardResponse{
		MyListings:        make([]ListingSummary, 0, len(myListings)),
		OffersReceived:    make([]OfferSummary, 0, len(offersReceived)),
		OffersMade:        make([]OfferSummary, 0, len(offersMade)),
		InquiriesReceived: make([]InquirySummary, 0, len(inquiriesReceived)),
		Profile: ProfileSummary{
			PhoneNumber: profile.PhoneNumber,
			City:        profile.City,
		},
	}

	for _, listing := range myListings {
		response.MyListings = append(response.MyListings, listingSummary(listing))
	}

	for _, offer := range offersReceived {
		response.OffersReceived = append(response.OffersReceived, offerSummary(offer))
	}

	for _, offer := range offersMade {
		response.OffersMade = append(response.OffersMade, offerSummary(offer))
	}

	for _, inquiry := range inquiriesReceived {
		response.InquiriesReceived = append(response.InquiriesReceived, inquirySummary(inquiry))
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateProfile handles POST /dashboard/: the profile sub-form.
func UpdateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ProfileRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := getOrCreateProfile(userID)

	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	profile.PhoneNumber = req.PhoneNumber
	profile.City = req.City

	if err := db.DB.Save(&profile).Error; err != nil {
		log.Printf("Failed to update profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Profile updated.",
		"profile": ProfileSummary{
			PhoneNumber: profile.PhoneNumber,
			City:        profile.City,
		},
	})
}
