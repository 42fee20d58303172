package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/services"
	"github.com/orx-dev/orx/internal/types"
	"github.com/orx-dev/orx/internal/utils"
	"gorm.io/gorm"
)

type offerInput struct {
	Amount  float64 `binding:"required,gt=0"`
	Message string
}

type OfferSummary struct {
	ID        uint               `json:"id"`
	ListingID uint               `json:"listing_id"`
	Listing   string             `json:"listing_title"`
	OfferedBy types.UserResponse `json:"offered_by"`
	Amount    float64            `json:"amount"`
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

func offerSummary(offer models.Offer) OfferSummary {
	return OfferSummary{
		ID:        offer.ID,
		ListingID: offer.ListingID,
		Listing:   offer.Listing.Title,
		OfferedBy: types.UserResponse{
			ID:    offer.OfferedBy.ID,
			Name:  offer.OfferedBy.Name,
			Email: offer.OfferedBy.Email,
		},
		Amount:    offer.Amount,
		Message:   offer.Message,
		Status:    offer.Status,
		CreatedAt: offer.CreatedAt,
	}
}

// createOffer is the `form_type=offer` branch of the listing detail POST.
// Visitors without a session are redirected to the login page with the
// listing as the return destination.
func createOffer(ctx *gin.Context, listing models.Listing, amount float64, message string) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login/?next="+listingPath(listing.Slug))
		return
	}

	input := offerInput{Amount: amount, Message: message}

	if err := binding.Validator.ValidateStruct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Offer must be greater than zero."})
		return
	}

	offer := models.Offer{
		ListingID:   listing.ID,
		OfferedByID: currentUser.ID,
		Amount:      amount,
		Message:     message,
		Status:      types.OfferPending,
	}

	if err := db.DB.Create(&offer).Error; err != nil {
		log.Printf("Failed to create offer: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit offer"})
		return
	}

	go func() {
		if err := services.NotifyOfferCreated(listing, offer, currentUser.Name); err != nil {
			log.Printf("Offer notification failed: %v", err)
		}
	}()

	BroadcastDashboardRefresh(listing.OwnerID)

	offer.Listing = listing
	offer.OfferedBy = models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Offer submitted to the seller.",
		"offer":   offerSummary(offer),
	})
}

// UpdateOfferStatus handles POST /offers/:id/:status/. Only the owner of the
// parent listing may decide an offer, the target must be a terminal status,
// and an already decided offer stays decided.
func UpdateOfferStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	target := ctx.Param("status")

	if target != types.OfferAccepted && target != types.OfferRejected {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer status"})
		return
	}

	var offer models.Offer

	err = db.DB.Preload("Listing").
		Select("offers.*").
		Joins("JOIN listings ON listings.id = offers.listing_id").
		Where("offers.id = ? AND listings.owner_id = ?", ctx.Param("id"), userID).
		First(&offer).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		} else {
			log.Printf("Failed to retrieve offer: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offer"})
		}
		return
	}

	if offer.Status != types.OfferPending {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Offer has already been " + offer.Status})
		return
	}

	if err := db.DB.Model(&offer).Update("status", target).Error; err != nil {
		log.Printf("Failed to update offer status: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update offer"})
		return
	}

	go func() {
		if err := services.NotifyOfferDecided(offer.Listing, offer); err != nil {
			log.Printf("Offer decision notification failed: %v", err)
		}
	}()

	BroadcastDashboardRefresh(offer.OfferedByID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Offer marked as " + target + "."})
}
