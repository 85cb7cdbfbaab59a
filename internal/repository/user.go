package repository

import (
	"context"
	"time"

	"github.com/natadigital/auth-service/internal/model"
	"github.com/natadigital/auth-service/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository is the gorm-backed UserStore. Not-found is reported as
// gorm.ErrRecordNotFound and duplicate emails as gorm.ErrDuplicatedKey
// (connection opened with TranslateError); the service layer maps both to
// domain errors.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A unique-constraint violation on email surfaces
// as gorm.ErrDuplicatedKey.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)

	if result.Error != nil {
		logger.GetLogger().Warn("Failed to create user",
			zap.String("email", user.Email),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error))
		return result.Error
	}

	logger.GetLogger().Debug("User created",
		zap.String("email", user.Email),
		zap.Uint("user_id", user.ID),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// FindByEmail looks up a user by exact email (case-sensitive as stored).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// ClaimRefreshToken atomically clears the refresh slot of the user whose
// stored token equals the presented one and is still unexpired, returning the
// claimed record. Done as a single conditional UPDATE ... RETURNING, so two
// concurrent claims of the same token cannot both succeed.
func (r *UserRepository) ClaimRefreshToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	start := time.Now()
	var users []model.User

	result := r.db.WithContext(ctx).
		Model(&users).
		Clauses(clause.Returning{}).
		Where("refresh_token = ? AND refresh_token_expires_at > ?", token, now).
		Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		})

	if result.Error != nil {
		logger.GetLogger().Error("Failed to claim refresh token",
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error))
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	logger.GetLogger().Debug("Refresh token claimed",
		zap.Uint("user_id", users[0].ID),
		zap.Duration("duration", time.Since(start)))

	return &users[0], nil
}

// UpdateRefreshToken sets or clears the refresh slot. Token and expiry are
// written together, nil clears both.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uint, token *string, expiresAt *time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token":            token,
		"refresh_token_expires_at": expiresAt,
	})

	if result.Error != nil {
		logger.GetLogger().Error("Failed to update refresh token",
			zap.Uint("user_id", id),
			zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hash)

	if result.Error != nil {
		logger.GetLogger().Error("Failed to update password",
			zap.Uint("user_id", id),
			zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Info("Password updated",
		zap.Uint("user_id", id))

	return nil
}

// CleanupExpiredRefreshTokens clears refresh slots whose expiry has passed.
// Run periodically; correctness does not depend on it because every read of
// the slot also checks the expiry.
func (r *UserRepository) CleanupExpiredRefreshTokens(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at < ?", time.Now()).
		Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		})

	if result.Error != nil {
		logger.GetLogger().Error("Failed to cleanup expired refresh tokens",
			zap.Error(result.Error))
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.GetLogger().Info("Expired refresh tokens cleaned up",
			zap.Int64("cleaned_count", result.RowsAffected))
	}

	return result.RowsAffected, nil
}
