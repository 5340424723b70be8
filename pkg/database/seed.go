package database

import (
	"github.com/nimbrus/accounts-api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoUser defines the development seed account
type DemoUser struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// GetDemoUser returns the development seed account
func GetDemoUser() DemoUser {
	return DemoUser{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "demo@accounts.local",
		Username:  "demo",
		Password:  "Demo@12345", // Development only, seeding is skipped in production
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedUsers(db)
}

// SeedUsers creates the demo user if not exists
func SeedUsers(db *gorm.DB) error {
	demo := GetDemoUser()

	var existingUser model.User
	result := db.Where("email = ?", demo.Email).First(&existingUser)

	if result.Error == nil {
		// User already exists, skip seeding
		return nil
	}

	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		FirstName: demo.FirstName,
		LastName:  demo.LastName,
		Email:     model.OptionalString(demo.Email),
		Username:  model.OptionalString(demo.Username),
		Password:  string(hashedPassword),
	}

	return db.Create(&user).Error
}
