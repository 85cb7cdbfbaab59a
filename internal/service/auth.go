package service

import (
	"context"
	"errors"
	"time"

	"github.com/natadigital/auth-service/internal/dto"
	apperrors "github.com/natadigital/auth-service/internal/errors"
	"github.com/natadigital/auth-service/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserStore is the durable user-record collaborator. Implementations must make
// ClaimRefreshToken a single atomic conditional update: it clears the refresh
// slot only when the stored token matches and is unexpired, and returns the
// claimed record. That atomicity is what makes concurrent refresh calls with
// the same token resolve to exactly one winner.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	ClaimRefreshToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, id uint, token *string, expiresAt *time.Time) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// AuthService orchestrates the credential and session-token lifecycle. All
// dependencies are injected; the service itself holds no mutable state and is
// safe for request-parallel use.
type AuthService struct {
	store      UserStore
	hasher     *PasswordHasher
	issuer     *TokenIssuer
	refreshTTL time.Duration
	logger     *zap.Logger
}

func NewAuthService(store UserStore, hasher *PasswordHasher, issuer *TokenIssuer, refreshTTL time.Duration, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:      store,
		hasher:     hasher,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Register creates a new user with a hashed password. Duplicate emails are
// detected from the store's unique-constraint violation rather than a
// pre-check, so two concurrent registrations cannot both slip through.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*dto.UserProfile, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration",
			zap.String("email", email),
			zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		Role:     model.RoleUser,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("Registration rejected: email already exists",
				zap.String("email", email))
			return nil, apperrors.ErrDuplicateEmail
		}
		s.logger.Error("Failed to create user",
			zap.String("email", email),
			zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("User registered successfully",
		zap.String("email", user.Email),
		zap.Uint("user_id", user.ID))

	return &dto.UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login verifies credentials and opens a new session. An unknown email and a
// failed password verification return the identical error so callers cannot
// probe which emails exist. The refresh slot is overwritten unconditionally:
// logging in replaces any prior session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenPair, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Login failed: user not found",
				zap.String("email", email))
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error("Failed to look up user for login",
			zap.String("email", email),
			zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.hasher.Verify(password, user.Password) {
		s.logger.Warn("Login failed: password verification failed",
			zap.String("email", email),
			zap.Uint("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully",
		zap.String("email", user.Email),
		zap.Uint("user_id", user.ID))

	return pair, nil
}

// Refresh rotates a refresh token. The store claim is a single conditional
// update, so of two concurrent calls presenting the same valid token exactly
// one receives the record and the other fails. Unknown, expired and
// already-rotated tokens are indistinguishable to the caller.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	user, err := s.store.ClaimRefreshToken(ctx, refreshToken, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Refresh attempt with invalid or expired token")
			return nil, apperrors.ErrInvalidRefreshToken
		}
		s.logger.Error("Failed to claim refresh token", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Refresh token rotated successfully",
		zap.Uint("user_id", user.ID))

	return pair, nil
}

// Logout clears the user's refresh slot. Calling it for a user with no active
// session is harmless, so repeated logouts succeed.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.store.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Logout for unknown user",
				zap.Uint("user_id", userID))
			return apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to clear refresh token on logout",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("User logged out successfully",
		zap.Uint("user_id", userID))

	return nil
}

// ChangePassword verifies the old password and persists a new hash. The
// active refresh token is revoked as well, so a stolen session cannot outlive
// a password change.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Authenticated id no longer resolves, data inconsistency
			s.logger.Error("Change password: authenticated user missing from store",
				zap.Uint("user_id", userID))
			return apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to fetch user for password change",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.hasher.Verify(oldPassword, user.Password) {
		s.logger.Warn("Change password rejected: old password incorrect",
			zap.Uint("user_id", userID))
		return apperrors.ErrIncorrectOldPassword
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash new password",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.store.UpdatePassword(ctx, userID, hashed); err != nil {
		s.logger.Error("Failed to persist new password",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.store.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		s.logger.Error("Failed to revoke refresh token after password change",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("User changed password successfully",
		zap.String("email", user.Email),
		zap.Uint("user_id", userID))

	return nil
}

// issueSession mints a fresh access/refresh pair and persists the refresh
// side on the user record.
func (s *AuthService) issueSession(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	accessToken, err := s.issuer.IssueAccess(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to issue access token",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.issuer.IssueRefreshSecret()
	if err != nil {
		s.logger.Error("Failed to issue refresh secret",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	expiresAt := time.Now().Add(s.refreshTTL)
	if err := s.store.UpdateRefreshToken(ctx, user.ID, &refreshToken, &expiresAt); err != nil {
		s.logger.Error("Failed to persist refresh token",
			zap.Uint("user_id", user.ID),
			zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.issuer.AccessTTLSeconds(),
	}, nil
}
