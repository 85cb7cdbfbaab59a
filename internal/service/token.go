package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/natadigital/auth-service/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

// refreshSecretBytes is the entropy of an opaque refresh secret. 64 random
// bytes, hex encoded to a 128-character string.
const refreshSecretBytes = 64

// Identity is the set of claims a verified access token resolves to.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// TokenIssuer mints signed access tokens and opaque refresh secrets. The
// signing secret and TTL are fixed at construction; the issuer holds no other
// state and is safe for concurrent use.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// AccessTTLSeconds returns the access token lifetime in seconds, as reported
// to clients in the expiresIn field.
func (s *TokenIssuer) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

// IssueAccess creates a signed, time-bound access token for the user.
func (s *TokenIssuer) IssueAccess(userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// VerifyAccess validates a signed access token and returns the identity it
// carries. Expired, tampered and unparseable tokens each map to their own
// domain error.
func (s *TokenIssuer) VerifyAccess(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, apperrors.WrapError(apperrors.ErrTokenMalformed, err)
		default:
			return nil, apperrors.WrapError(apperrors.ErrTokenInvalid, err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}

	return &Identity{
		UserID: uint(userID),
		Email:  email,
		Role:   role,
	}, nil
}

// IssueRefreshSecret generates a cryptographically random opaque secret.
// Never derived from user data.
func (s *TokenIssuer) IssueRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
