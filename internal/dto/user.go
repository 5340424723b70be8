package dto

import "time"

// SignUpRequest carries the signup payload. Identity fields are each
// optional; the service rejects requests where all three are empty.
type SignUpRequest struct {
	Email       string `json:"email" binding:"omitempty,email,max=255"`
	Username    string `json:"username" binding:"omitempty,min=3,max=30"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,e164"`
	Password    string `json:"password" binding:"required,min=8,max=100"`
	FirstName   string `json:"firstName" binding:"required,max=50"`
	LastName    string `json:"lastName" binding:"required,max=50"`
	Birthday    string `json:"birthday" binding:"required,datetime=2006-01-02"`
}

// LoginRequest matches a single identification value against email,
// username and phone number at once.
type LoginRequest struct {
	Identification string `json:"identification" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

// UserResponse is the outward profile shape. It never carries the
// password digest.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	Username    string    `json:"username,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Birthday    string    `json:"birthday"`
	Addresses   []string  `json:"addresses"`
	CreatedAt   time.Time `json:"createDate"`
	UpdatedAt   time.Time `json:"updateDate"`
}

// AuthResponse is returned by signup, login and refresh: both tokens in
// the body plus the profile. The refresh token additionally travels in
// the HTTP-only cookie.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}
