package middleware

import (
	"net/http"
	"strings"

	apperrors "github.com/natadigital/auth-service/internal/errors"
	"github.com/natadigital/auth-service/internal/service"
	"github.com/natadigital/auth-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentityKey is the gin context key the resolved identity is stored under.
const IdentityKey = "identity"

// AuthMiddleware resolves the caller's identity from a bearer access token.
// Verification is purely cryptographic, no store round-trip: a token is valid
// until its TTL expires regardless of later account changes.
type AuthMiddleware struct {
	issuer *service.TokenIssuer
}

func NewAuthMiddleware(issuer *service.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// RequireAuth verifies the bearer token and attaches the resolved identity to
// the request context. Requests without a verifiable identity are rejected
// with the token's domain error.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c, apperrors.ErrMissingIdentity)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c, apperrors.ErrMissingIdentity)
			return
		}

		identity, err := m.issuer.VerifyAccess(tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Access token verification failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c, err)
			return
		}

		c.Set(IdentityKey, identity)

		logger.GetLogger().Debug("Identity resolved",
			zap.Uint("user_id", identity.UserID),
			zap.String("email", identity.Email),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}

// CurrentIdentity returns the identity resolved by RequireAuth, if any.
// Handlers behind RequireAuth that still find no identity must treat that as
// a severe caller misconfiguration, not a normal auth failure.
func CurrentIdentity(c *gin.Context) (*service.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*service.Identity)
	return identity, ok
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": apperrors.GetErrorMessage(err),
		"code":    apperrors.GetErrorCode(err),
	})
}
