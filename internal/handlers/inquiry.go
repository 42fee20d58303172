package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/services"
	"github.com/orx-dev/orx/internal/utils"
)

type inquiryInput struct {
	Name    string `binding:"required,max=120"`
	Email   string `binding:"required,email"`
	Message string `binding:"required"`
}

type InquirySummary struct {
	ID        uint      `json:"id"`
	ListingID uint      `json:"listing_id"`
	Listing   string    `json:"listing_title"`
	SenderID  *uint     `json:"sender_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func inquirySummary(inquiry models.Inquiry) InquirySummary {
	return InquirySummary{
		ID:        inquiry.ID,
		ListingID: inquiry.ListingID,
		Listing:   inquiry.Listing.Title,
		SenderID:  inquiry.SenderID,
		Name:      inquiry.Name,
		Email:     inquiry.Email,
		Message:   inquiry.Message,
		CreatedAt: inquiry.CreatedAt,
	}
}

// createInquiry is the `form_type=inquiry` branch of the listing detail
// POST. Anyone may ask; a signed-in sender is recorded and their account
// values fill in a blank name or email.
func createInquiry(ctx *gin.Context, listing models.Listing, name, email, message string) {
	var senderID *uint

	if currentUser, err := utils.GetCurrentUser(ctx); err == nil {
		id := currentUser.ID
		senderID = &id

		if name == "" {
			name = currentUser.Name
		}

		if email == "" {
			email = currentUser.Email
		}
	}

	input := inquiryInput{Name: name, Email: email, Message: message}

	if err := binding.Validator.ValidateStruct(input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inquiry := models.Inquiry{
		ListingID: listing.ID,
		SenderID:  senderID,
		Name:      name,
		Email:     email,
		Message:   message,
	}

	if err := db.DB.Create(&inquiry).Error; err != nil {
		log.Printf("Failed to create inquiry: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit inquiry"})
		return
	}

	go func() {
		if err := services.NotifyInquiryCreated(listing, inquiry); err != nil {
			log.Printf("Inquiry notification failed: %v", err)
		}
	}()

	BroadcastDashboardRefresh(listing.OwnerID)

	inquiry.Listing = listing

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Your question was sent to the seller.",
		"inquiry": inquirySummary(inquiry),
	})
}
