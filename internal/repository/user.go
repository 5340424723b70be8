package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimbrus/accounts-api/internal/model"
	ctxutil "github.com/nimbrus/accounts-api/pkg/context"
	"github.com/nimbrus/accounts-api/pkg/logger"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for a unique
// constraint failure.
const pgUniqueViolation = "23505"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID finds user by its generated identifier
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	logger.DebugWithContext(ctx, "Getting user by ID").
		String("lookup_id", id).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				String("lookup_id", id).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		String("lookup_id", id).
		Duration(duration).
		Log()

	return &user, nil
}

// FindByIdentification finds a user whose email, username or phone
// number equals the given value. A single OR query, not three lookups.
func (r *UserRepository) FindByIdentification(ctx context.Context, identification string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByIdentification")

	logger.DebugWithContext(ctx, "Finding user by identification").
		Log()

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).
		Where("email = ? OR username = ? OR phone_number = ?", identification, identification, identification).
		First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to find user by identification").
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User found by identification").
		String("lookup_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

// FindByIdentityFields returns every user matching any of the supplied
// identity fields. Empty fields are skipped. Used by the signup
// pre-check to report all collisions at once.
func (r *UserRepository) FindByIdentityFields(ctx context.Context, email, username, phoneNumber string) ([]model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByIdentityFields")

	query := r.db.WithContext(ctx).Model(&model.User{})

	conditions := r.db.Session(&gorm.Session{NewDB: true}).Model(&model.User{})
	matched := false
	if email != "" {
		conditions = conditions.Or("email = ?", email)
		matched = true
	}
	if username != "" {
		conditions = conditions.Or("username = ?", username)
		matched = true
	}
	if phoneNumber != "" {
		conditions = conditions.Or("phone_number = ?", phoneNumber)
		matched = true
	}

	if !matched {
		return nil, nil
	}

	start := time.Now()
	var users []model.User
	if err := query.Where(conditions).Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to query users by identity fields").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Identity pre-check query finished").
		Int("matched_count", len(users)).
		Duration(time.Since(start)).
		Log()

	return users, nil
}

// Create inserts a new user row. Unique-index violations surface
// unchanged; callers classify them with IsUniqueViolation.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	logger.DebugWithContext(ctx, "Creating new user").
		String("first_name", user.FirstName).
		String("last_name", user.LastName).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			logger.WarnWithContext(ctx, "Unique constraint violated on insert").
				Duration(duration).
				Log()
		} else {
			logger.ErrorWithContext(ctx, "Failed to create user").
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("created_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// failure. The raw driver error must never reach a client; callers
// translate it to a conflict error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
