package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nimbrus/accounts-api/internal/constants"
	"github.com/nimbrus/accounts-api/internal/dto"
	apperrors "github.com/nimbrus/accounts-api/internal/errors"
	"github.com/nimbrus/accounts-api/internal/model"
	"github.com/nimbrus/accounts-api/internal/repository"
	ctxutil "github.com/nimbrus/accounts-api/pkg/context"
	"github.com/nimbrus/accounts-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// UserStore is the persistence surface the auth flow needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	FindByIdentification(ctx context.Context, identification string) (*model.User, error)
	FindByIdentityFields(ctx context.Context, email, username, phoneNumber string) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// AuthService orchestrates signup, login and token-based user
// resolution over the store, the hasher and the token service.
type AuthService struct {
	users  UserStore
	tokens *TokenService
	cache  *ProfileCache
}

func NewAuthService(users UserStore, tokens *TokenService, cache *ProfileCache) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cache:  cache,
	}
}

// SignUp validates identity presence and uniqueness, hashes the
// password, inserts the user and issues both tokens.
func (s *AuthService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "SignUp")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	phoneNumber := strings.TrimSpace(req.PhoneNumber)

	if email == "" && username == "" && phoneNumber == "" {
		logger.WarnWithContext(ctx, "Signup rejected: no identity field supplied").
			Log()
		return nil, apperrors.ErrMissingIdentity
	}

	logger.InfoWithContext(ctx, "Creating new user").
		Bool("has_email", email != "").
		Bool("has_username", username != "").
		Bool("has_phone_number", phoneNumber != "").
		Log()

	// Pre-check every supplied identity field in one query and report
	// all collisions at once.
	existing, err := s.users.FindByIdentityFields(ctx, email, username, phoneNumber)
	if err != nil {
		logger.ErrorWithContext(ctx, "Identity pre-check failed").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if messages := collisionMessages(existing, email, username, phoneNumber); len(messages) > 0 {
		logger.WarnWithContext(ctx, "Signup rejected: identity collision").
			Int("collision_count", len(messages)).
			Log()
		return nil, apperrors.WithDetails(apperrors.ErrIdentityConflict, messages)
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	birthday, err := time.Parse(constants.BirthdayLayout, req.Birthday)
	if err != nil {
		// Binding validates the layout already; this only fires when the
		// service is called directly with a malformed date.
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, err)
	}

	user := &model.User{
		Email:       model.OptionalString(email),
		Username:    model.OptionalString(username),
		PhoneNumber: model.OptionalString(phoneNumber),
		Password:    hashedPassword,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Birthday:    datatypes.Date(birthday),
		Addresses:   datatypes.JSONSlice[string]{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Two signups can race past the pre-check; only one insert wins
		// and the loser sees the unique index. Translate, never leak the
		// raw store error.
		if repository.IsUniqueViolation(err) {
			logger.WarnWithContext(ctx, "Signup lost uniqueness race").
				Log()
			return nil, apperrors.WrapError(apperrors.ErrDuplicateIdentity, err)
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate token pair").
			String("created_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User signed up successfully").
		String("created_id", user.ID).
		Log()

	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserResponse(user),
	}, nil
}

// Login authenticates a user by any identity field plus password and
// issues both tokens. Every failure path returns the same error so a
// caller cannot tell a missing user from a wrong password.
func (s *AuthService) Login(ctx context.Context, identification, password string) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	logger.InfoWithContext(ctx, "User login attempt").
		Log()

	user, err := s.users.FindByIdentification(ctx, identification)
	if err != nil {
		if repository.IsNotFound(err) {
			logger.InfoWithContext(ctx, "Login failed: user not found").
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.ErrorWithContext(ctx, "Failed to look up user for login").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, password) {
		logger.WarnWithContext(ctx, "Login failed: password mismatch").
			String("lookup_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate token pair").
			String("lookup_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged in successfully").
		String("lookup_id", user.ID).
		Log()

	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserResponse(user),
	}, nil
}

// ValidateByAccessToken resolves the profile behind a verified token
// payload. A missing user is an authentication failure, not a 404.
func (s *AuthService) ValidateByAccessToken(ctx context.Context, userID string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ValidateByAccessToken")

	if cached := s.cache.Get(ctx, userID); cached != nil {
		logger.DebugWithContext(ctx, "Profile served from cache").
			String("lookup_id", userID).
			Log()
		return cached, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			logger.WarnWithContext(ctx, "Token references nonexistent user").
				String("lookup_id", userID).
				Log()
			return nil, apperrors.ErrUserNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to get user by ID").
			String("lookup_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	profile := toUserResponse(user)
	s.cache.Set(ctx, &profile)

	return &profile, nil
}

// Refresh re-resolves the profile and issues a fresh token pair for a
// holder of a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, userID string) (*dto.AuthResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	profile, err := s.ValidateByAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate token pair").
			String("lookup_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Token pair refreshed").
		String("lookup_id", userID).
		Log()

	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *profile,
	}, nil
}

// RefreshCookieMaxAge mirrors the refresh token lifetime so the cookie
// and the token inside it expire together.
func (s *AuthService) RefreshCookieMaxAge() time.Duration {
	return s.tokens.RefreshExpiry()
}

// hashPassword hashes password using bcrypt
func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash, failing closed on any
// malformed digest.
func checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// collisionMessages builds one message per identity field already in
// use, in a stable field order.
func collisionMessages(existing []model.User, email, username, phoneNumber string) []string {
	var messages []string

	if email != "" && matchesAny(existing, func(u *model.User) bool { return u.EmailValue() == email }) {
		messages = append(messages, "email is already in use")
	}
	if username != "" && matchesAny(existing, func(u *model.User) bool { return u.UsernameValue() == username }) {
		messages = append(messages, "username already exists")
	}
	if phoneNumber != "" && matchesAny(existing, func(u *model.User) bool { return u.PhoneNumberValue() == phoneNumber }) {
		messages = append(messages, "phone number is already in use")
	}

	return messages
}

func matchesAny(users []model.User, match func(*model.User) bool) bool {
	for i := range users {
		if match(&users[i]) {
			return true
		}
	}
	return false
}

// toUserResponse maps the stored row to the outward profile shape,
// always excluding the password digest.
func toUserResponse(user *model.User) dto.UserResponse {
	addresses := []string(user.Addresses)
	if addresses == nil {
		addresses = []string{}
	}

	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.EmailValue(),
		Username:    user.UsernameValue(),
		PhoneNumber: user.PhoneNumberValue(),
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Birthday:    time.Time(user.Birthday).Format(constants.BirthdayLayout),
		Addresses:   addresses,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
