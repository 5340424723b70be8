package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is addressable by any of its identity fields (email, username,
// phone number). Each field is optional but at least one must be
// present; uniqueness is enforced per field by partial unique indexes
// created during migration (unique where the column is not null).
type User struct {
	ID          string                      `gorm:"column:id;type:uuid;primaryKey"`
	Email       *string                     `gorm:"column:email"`
	Username    *string                     `gorm:"column:username"`
	PhoneNumber *string                     `gorm:"column:phone_number"`
	Password    string                      `gorm:"column:password;not null"`
	FirstName   string                      `gorm:"column:first_name;not null"`
	LastName    string                      `gorm:"column:last_name;not null"`
	Birthday    datatypes.Date              `gorm:"column:birthday"`
	Addresses   datatypes.JSONSlice[string] `gorm:"column:addresses"`
	CreatedAt   time.Time                   `gorm:"column:created_at"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"column:deleted_at;index"`
}

// BeforeCreate assigns the generated identifier.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasIdentity reports whether at least one identity field is present.
func (u *User) HasIdentity() bool {
	return strVal(u.Email) != "" || strVal(u.Username) != "" || strVal(u.PhoneNumber) != ""
}

// EmailValue returns the email or empty string.
func (u *User) EmailValue() string { return strVal(u.Email) }

// UsernameValue returns the username or empty string.
func (u *User) UsernameValue() string { return strVal(u.Username) }

// PhoneNumberValue returns the phone number or empty string.
func (u *User) PhoneNumberValue() string { return strVal(u.PhoneNumber) }

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptionalString maps an empty string to a NULL column value so the
// partial unique indexes ignore absent identity fields.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
