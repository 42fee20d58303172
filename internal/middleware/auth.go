package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/auth"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/types"
)

type AuthenticatedUser struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// tokenFromRequest accepts the session cookie set at login/registration or
// a Bearer token in the Authorization header.
func tokenFromRequest(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

func resolveUser(tokenString string) (AuthenticatedUser, bool) {
	token, err := auth.VerifyJWT(tokenString)

	if err != nil || !token.Valid {
		return AuthenticatedUser{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return AuthenticatedUser{}, false
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return AuthenticatedUser{}, false
	}

	var user models.User

	if err := db.DB.Where("id = ?", uint(userIDFloat)).First(&user).Error; err != nil {
		return AuthenticatedUser{}, false
	}

	return AuthenticatedUser{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}, true
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := tokenFromRequest(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		user, ok := resolveUser(tokenString)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// OptionalAuthMiddleware resolves the current user when a valid token is
// present but never rejects the request. Public pages that change behavior
// for signed-in visitors (listing detail, registration) use this.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenString := tokenFromRequest(ctx); tokenString != "" {
			if user, ok := resolveUser(tokenString); ok {
				ctx.Set(types.ContextUserKey, user)
			}
		}

		ctx.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		user, ok := value.(AuthenticatedUser)

		if !exists || !ok || !user.IsAdmin {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		ctx.Next()
	}
}
