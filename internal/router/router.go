package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/orx-dev/orx/internal/handlers"
	"github.com/orx-dev/orx/internal/middleware"
	"github.com/orx-dev/orx/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health/", handlers.HealthCheck)

	r.GET("/", handlers.BrowseListings)

	r.GET("/register/", middleware.OptionalAuthMiddleware(), handlers.RegisterForm)
	r.POST("/register/", middleware.OptionalAuthMiddleware(), handlers.Register)
	r.GET("/login/", handlers.LoginForm)
	r.POST("/login/", handlers.Login)
	r.POST("/logout/", handlers.Logout)
	r.GET("/me/", middleware.AuthMiddleware(), handlers.Me)

	listings := r.Group("/listings")
	{
		listings.GET("/new/", middleware.AuthMiddleware(), handlers.NewListingForm)
		listings.POST("/new/", middleware.AuthMiddleware(), handlers.CreateListing)
		listings.GET("/:slug/", handlers.GetListing)
		listings.POST("/:slug/", middleware.OptionalAuthMiddleware(), handlers.ListingDetailPost)
		listings.GET("/:slug/edit/", middleware.AuthMiddleware(), handlers.EditListingForm)
		listings.POST("/:slug/edit/", middleware.AuthMiddleware(), handlers.UpdateListing)
	}

	r.GET("/dashboard/", middleware.AuthMiddleware(), handlers.GetDashboard)
	r.POST("/dashboard/", middleware.AuthMiddleware(), handlers.UpdateProfile)

	r.POST("/offers/:id/:status/", middleware.AuthMiddleware(), handlers.UpdateOfferStatus)

	r.GET("/ws/", middleware.AuthMiddleware(), handlers.WebSocket)

	admin := r.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/categories/", handlers.AdminListCategories)
		admin.POST("/categories/", handlers.AdminCreateCategory)
		admin.PUT("/categories/:id/", handlers.AdminUpdateCategory)
		admin.DELETE("/categories/:id/", handlers.AdminDeleteCategory)
		admin.GET("/listings/", handlers.AdminListListings)
		admin.GET("/offers/", handlers.AdminListOffers)
		admin.GET("/inquiries/", handlers.AdminListInquiries)
		admin.GET("/users/", handlers.AdminListUsers)
	}

	return r
}
