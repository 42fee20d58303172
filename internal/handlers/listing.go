package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/types"
	"github.com/orx-dev/orx/internal/utils"
	"gorm.io/gorm"
)

type ListingRequest struct {
	Title       string  `json:"title" form:"title" binding:"required,max=180"`
	Description string  `json:"description" form:"description" binding:"required"`
	Price       float64 `json:"price" form:"price" binding:"required,gt=0"`
	CategoryID  uint    `json:"category_id" form:"category_id" binding:"required"`
	Condition   string  `json:"condition" form:"condition" binding:"omitempty,oneof=new like_new good fair"`
	Location    string  `json:"location" form:"location" binding:"required,max=120"`
	ImageURL    string  `json:"image_url" form:"image_url" binding:"omitempty,url"`
	Status      string  `json:"status" form:"status" binding:"omitempty,oneof=active reserved sold"`
}

type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ListingSummary struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Condition   string             `json:"condition"`
	Location    string             `json:"location"`
	ImageURL    string             `json:"image_url"`
	Status      string             `json:"status"`
	Category    CategorySummary    `json:"category"`
	Owner       types.UserResponse `json:"owner"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func listingSummary(listing models.Listing) ListingSummary {
	return ListingSummary{
		ID:          listing.ID,
		Title:       listing.Title,
		Slug:        listing.Slug,
		Description: listing.Description,
		Price:       listing.Price,
		Condition:   listing.Condition,
		Location:    listing.Location,
		ImageURL:    listing.ImageURL,
		Status:      listing.Status,
		Category: CategorySummary{
			ID:   listing.Category.ID,
			Name: listing.Category.Name,
			Slug: listing.Category.Slug,
		},
		Owner: types.UserResponse{
			ID:    listing.Owner.ID,
			Name:  listing.Owner.Name,
			Email: listing.Owner.Email,
		},
		CreatedAt: listing.CreatedAt,
		UpdatedAt: listing.UpdatedAt,
	}
}

// BrowseListings handles GET /. Sold listings never show up here; `q`
// matches title, description or location case-insensitively and `category`
// filters by category slug. Results are newest first, 12 per page.
func BrowseListings(ctx *gin.Context) {
	query := db.DB.Model(&models.Listing{}).
		Preload("Category").
		Preload("Owner").
		Where("listings.status IN ?", []string{types.ListingActive, types.ListingReserved})

	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(listings.title) LIKE ? OR LOWER(listings.description) LIKE ? OR LOWER(listings.location) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if categorySlug := ctx.Query("category"); categorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = listings.category_id").
			Where("categories.slug = ?", categorySlug)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		log.Printf("Failed to count listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	if err != nil || page < 1 {
		page = 1
	}

	var listings []models.Listing

	err = query.
		Select("listings.*").
		Order("listings.created_at DESC").
		Offset((page - 1) * types.ListingsPerPage).
		Limit(types.ListingsPerPage).
		Find(&listings).Error

	if err != nil {
		log.Printf("Failed to retrieve listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}

	results := make([]ListingSummary, 0, len(listings))

	for _, listing := range listings {
		results = append(results, listingSummary(listing))
	}

	var categories []models.Category

	if err := db.DB.Order("name").Find(&categories).Error; err != nil {
		log.Printf("Failed to retrieve categories: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}

	categorySummaries := make([]CategorySummary, 0, len(categories))

	for _, category := range categories {
		categorySummaries = append(categorySummaries, CategorySummary{
			ID:   category.ID,
			Name: category.Name,
			Slug: category.Slug,
		})
	}

	totalPages := int((total + types.ListingsPerPage - 1) / types.ListingsPerPage)

	ctx.JSON(http.StatusOK, gin.H{
		"listings":          results,
		"categories":        categorySummaries,
		"query":             ctx.Query("q"),
		"selected_category": ctx.Query("category"),
		"page":              page,
		"total_pages":       totalPages,
		"total":             total,
	})
}

// NewListingForm handles GET /listings/new/: the choices a client needs to
// render the create form.
func NewListingForm(ctx *gin.Context) {
	var categories []models.Category

	if err := db.DB.Order("name").Find(&categories).Error; err != nil {
		log.Printf("Failed to retrieve categories: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	categorySummaries := make([]CategorySummary, 0, len(categories))

	for _, category := range categories {
		categorySummaries = append(categorySummaries, CategorySummary{
			ID:   category.ID,
			Name: category.Name,
			Slug: category.Slug,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"categories": categorySummaries,
		"conditions": []string{types.ConditionNew, types.ConditionLikeNew, types.ConditionGood, types.ConditionFair},
		"statuses":   []string{types.ListingActive, types.ListingReserved, types.ListingSold},
	})
}

func CreateListing(ctx *gin.Context) {
	var req ListingRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var category models.Category

	if err := db.DB.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		} else {
			log.Printf("Failed to fetch category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if req.Condition == "" {
		req.Condition = types.ConditionGood
	}

	if req.Status == "" {
		req.Status = types.ListingActive
	}

	listing := models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  category.ID,
		Condition:   req.Condition,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
		OwnerID:     userID,
	}

	// Two concurrent creates with the same title can both pass the probe;
	// the loser of the insert race retries with a fresh suffix.
	for attempt := 0; attempt < 3; attempt++ {
		listing.Slug, err = utils.UniqueSlug(db.DB, &models.Listing{}, req.Title, 0)

		if err != nil {
			log.Printf("Failed to generate slug: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		err = db.DB.Create(&listing).Error

		if err == nil || !utils.IsUniqueViolation(err) {
			break
		}
	}

	if err != nil {
		log.Printf("Failed to create listing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	listing.Category = category

	if err := db.DB.First(&listing.Owner, userID).Error; err != nil {
		log.Printf("Failed to fetch owner: %v", err)
	}

	ctx.JSON(http.StatusCreated, listingSummary(listing))
}

// GetListing handles GET /listings/:slug/.
func GetListing(ctx *gin.Context) {
	var listing models.Listing

	err := db.DB.Preload("Category").Preload("Owner").
		Where("slug = ?", ctx.Param("slug")).
		First(&listing).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		} else {
			log.Printf("Failed to retrieve listing: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	ctx.JSON(http.StatusOK, listingSummary(listing))
}

type detailPostRequest struct {
	FormType string `json:"form_type" form:"form_type" binding:"required,oneof=offer inquiry"`

	// offer fields
	Amount  float64 `json:"amount" form:"amount"`
	Message string  `json:"message" form:"message"`

	// inquiry fields
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

// ListingDetailPost handles POST /listings/:slug/. A form_type discriminator
// selects between an offer and an inquiry.
func ListingDetailPost(ctx *gin.Context) {
	var listing models.Listing

	err := db.DB.Preload("Owner").
		Where("slug = ?", ctx.Param("slug")).
		First(&listing).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		} else {
			log.Printf("Failed to retrieve listing: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	var req detailPostRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.FormType {
	case "offer":
		createOffer(ctx, listing, req.Amount, req.Message)
	case "inquiry":
		createInquiry(ctx, listing, req.Name, req.Email, req.Message)
	}
}

// EditListingForm handles GET /listings/:slug/edit/. A non-owner gets the
// same 404 as an unknown slug.
func EditListingForm(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var listing models.Listing

	err = db.DB.Preload("Category").Preload("Owner").
		Where("slug = ? AND owner_id = ?", ctx.Param("slug"), userID).
		First(&listing).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		} else {
			log.Printf("Failed to retrieve listing: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	ctx.JSON(http.StatusOK, listingSummary(listing))
}

func UpdateListing(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var listing models.Listing

	err = db.DB.Where("slug = ? AND owner_id = ?", ctx.Param("slug"), userID).
		First(&listing).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		} else {
			log.Printf("Failed to retrieve listing: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	var req ListingRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category

	if err := db.DB.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		} else {
			log.Printf("Failed to fetch category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if req.Condition == "" {
		req.Condition = listing.Condition
	}

	if req.Status == "" {
		req.Status = listing.Status
	}

	listing.Title = req.Title
	listing.Description = req.Description
	listing.Price = req.Price
	listing.CategoryID = category.ID
	listing.Condition = req.Condition
	listing.Location = req.Location
	listing.ImageURL = req.ImageURL
	listing.Status = req.Status

	if err := db.DB.Save(&listing).Error; err != nil {
		log.Printf("Failed to update listing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	listing.Category = category

	if err := db.DB.First(&listing.Owner, userID).Error; err != nil {
		log.Printf("Failed to fetch owner: %v", err)
	}

	ctx.JSON(http.StatusOK, listingSummary(listing))
}

func listingPath(slug string) string {
	return fmt.Sprintf("/listings/%s/", slug)
}
