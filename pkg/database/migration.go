package database

import (
	"github.com/nimbrus/accounts-api/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return err
	}
	return ensureIdentityIndexes(db)
}

// ensureIdentityIndexes creates partial unique indexes on the identity
// columns. Uniqueness must hold only among non-null values, which GORM
// tags cannot express, so the indexes are created with raw SQL.
func ensureIdentityIndexes(db *gorm.DB) error {
	identityIndexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_unique ON users(email) WHERE email IS NOT NULL;",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_unique ON users(username) WHERE username IS NOT NULL;",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_phone_number_unique ON users(phone_number) WHERE phone_number IS NOT NULL;",
	}

	for _, indexSQL := range identityIndexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
