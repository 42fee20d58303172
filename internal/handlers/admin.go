package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=100"`
	Description string `json:"description" form:"description"`
}

func logAdminAction(ctx *gin.Context, action, objectType string, objectID uint, changes interface{}) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		return
	}

	payload, err := json.Marshal(changes)

	if err != nil {
		log.Printf("Failed to marshal admin log payload: %v", err)
		payload = []byte("{}")
	}

	entry := models.AdminLog{
		UserID:     userID,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Changes:    datatypes.JSON(payload),
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to record admin action: %v", err)
	}
}

func AdminListCategories(ctx *gin.Context) {
	var categories []models.Category

	if err := db.DB.Order("name").Find(&categories).Error; err != nil {
		log.Printf("Failed to retrieve categories: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	response := make([]gin.H, 0, len(categories))

	for _, category := range categories {
		response = append(response, gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": response})
}

func AdminCreateCategory(ctx *gin.Context) {
	var req CategoryRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categorySlug, err := utils.UniqueSlug(db.DB, &models.Category{}, req.Name, 0)

	if err != nil {
		log.Printf("Failed to generate category slug: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	category := models.Category{
		Name:        req.Name,
		Slug:        categorySlug,
		Description: req.Description,
	}

	if err := db.DB.Create(&category).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
			return
		}
		log.Printf("Failed to create category: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	logAdminAction(ctx, "create", "category", category.ID, req)

	ctx.JSON(http.StatusCreated, gin.H{
		"id":          category.ID,
		"name":        category.Name,
		"slug":        category.Slug,
		"description": category.Description,
	})
}

func AdminUpdateCategory(ctx *gin.Context) {
	var category models.Category

	if err := db.DB.First(&category, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			log.Printf("Failed to retrieve category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		}
		return
	}

	var req CategoryRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := db.DB.Save(&category).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
			return
		}
		log.Printf("Failed to update category: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	logAdminAction(ctx, "update", "category", category.ID, req)

	ctx.JSON(http.StatusOK, gin.H{
		"id":          category.ID,
		"name":        category.Name,
		"slug":        category.Slug,
		"description": category.Description,
	})
}

// AdminDeleteCategory refuses to delete a category that still has listings,
// mirroring the delete protection on the foreign key.
func AdminDeleteCategory(ctx *gin.Context) {
	var category models.Category

	if err := db.DB.First(&category, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			log.Printf("Failed to retrieve category: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		}
		return
	}

	var listingCount int64

	if err := db.DB.Model(&models.Listing{}).Where("category_id = ?", category.ID).Count(&listingCount).Error; err != nil {
		log.Printf("Failed to count listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	if listingCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Category still has listings"})
		return
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		log.Printf("Failed to delete category: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	logAdminAction(ctx, "delete", "category", category.ID, gin.H{"name": category.Name})

	ctx.Status(http.StatusNoContent)
}

// AdminListListings supports the same filters the admin list view exposes:
// status, category and condition.
func AdminListListings(ctx *gin.Context) {
	query := db.DB.Preload("Category").Preload("Owner")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}

	if condition := ctx.Query("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}

	var listings []models.Listing

	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		log.Printf("Failed to retrieve listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listings"})
		return
	}

	response := make([]ListingSummary, 0, len(listings))

	for _, listing := range listings {
		response = append(response, listingSummary(listing))
	}

	ctx.JSON(http.StatusOK, gin.H{"listings": response})
}

func AdminListOffers(ctx *gin.Context) {
	query := db.DB.Preload("Listing").Preload("OfferedBy")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var offers []models.Offer

	if err := query.Order("created_at DESC").Find(&offers).Error; err != nil {
		log.Printf("Failed to retrieve offers: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve offers"})
		return
	}

	response := make([]OfferSummary, 0, len(offers))

	for _, offer := range offers {
		response = append(response, offerSummary(offer))
	}

	ctx.JSON(http.StatusOK, gin.H{"offers": response})
}

func AdminListInquiries(ctx *gin.Context) {
	var inquiries []models.Inquiry

	if err := db.DB.Preload("Listing").Order("created_at DESC").Find(&inquiries).Error; err != nil {
		log.Printf("Failed to retrieve inquiries: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inquiries"})
		return
	}

	response := make([]InquirySummary, 0, len(inquiries))

	for _, inquiry := range inquiries {
		response = append(response, inquirySummary(inquiry))
	}

	ctx.JSON(http.StatusOK, gin.H{"inquiries": response})
}

func AdminListUsers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Printf("Failed to retrieve users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]gin.H, 0, len(users))

	for _, user := range users {
		response = append(response, gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"users": response})
}
