package db

import (
	"errors"
	"log"
	"os"

	"github.com/orx-dev/orx/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	switch os.Getenv("DB_DRIVER") {
	case "mysql":
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Listing{},
		&models.Offer{},
		&models.Inquiry{},
		&models.AdminLog{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdmin creates the initial admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no user with that email exists yet.
func SeedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" || password == "" {
		return nil
	}

	var existing models.User

	err := DB.Where("email = ?", email).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(passwordHash),
		IsAdmin:      true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Admin user seeded: %s (ID: %d)", admin.Email, admin.ID)

	return nil
}
