package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/orx-dev/orx/db"
	"github.com/orx-dev/orx/internal/auth"
	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/router"
	"github.com/orx-dev/orx/internal/types"
	"github.com/orx-dev/orx/internal/utils"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTest swaps the global DB for a per-test in-memory store and returns
// a fully wired router.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	auth.SetSecret("test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	db.DB = gormDB
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func createUser(t *testing.T, name, email string, isAdmin bool) (models.User, string) {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)

	return user, token
}

func createCategory(t *testing.T, name string) models.Category {
	t.Helper()

	categorySlug, err := utils.UniqueSlug(db.DB, &models.Category{}, name, 0)
	require.NoError(t, err)

	category := models.Category{Name: name, Slug: categorySlug}
	require.NoError(t, db.DB.Create(&category).Error)

	return category
}

func createListing(t *testing.T, owner models.User, category models.Category, title string, price float64, status string) models.Listing {
	t.Helper()

	listingSlug, err := utils.UniqueSlug(db.DB, &models.Listing{}, title, 0)
	require.NoError(t, err)

	listing := models.Listing{
		Title:       title,
		Slug:        listingSlug,
		Description: "A " + title,
		Price:       price,
		CategoryID:  category.ID,
		Condition:   types.ConditionGood,
		Location:    "Springfield",
		Status:      status,
		OwnerID:     owner.ID,
	}
	require.NoError(t, db.DB.Create(&listing).Error)

	return listing
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}
