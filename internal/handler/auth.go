package handler

import (
	"net/http"

	"github.com/natadigital/auth-service/internal/constants"
	"github.com/natadigital/auth-service/internal/dto"
	apperrors "github.com/natadigital/auth-service/internal/errors"
	"github.com/natadigital/auth-service/internal/middleware"
	"github.com/natadigital/auth-service/internal/service"
	"github.com/natadigital/auth-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler adapts the authentication service to HTTP. It owns status-code
// mapping and response shapes; all auth decisions live in the service.
type AuthHandler struct {
	authService *service.AuthService
	debug       bool
}

func NewAuthHandler(authService *service.AuthService, debug bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		debug:       debug,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.serviceError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		constants.ResponseFieldMessage: "User registered successfully",
		constants.ResponseFieldUser:    profile,
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(c, err, "Authentication failed")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// RefreshToken rotates a refresh token for a new access/refresh pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.serviceError(c, err, "Token refresh failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		constants.ResponseFieldMessage: "Tokens refreshed successfully",
		"accessToken":                  pair.AccessToken,
		"refreshToken":                 pair.RefreshToken,
		"expiresIn":                    pair.ExpiresIn,
	})
}

// Logout revokes the caller's active refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		// Should be unreachable behind RequireAuth, treat as a severe caller
		// misconfiguration rather than a normal auth failure.
		logger.GetLogger().Error("Logout reached without resolved identity",
			zap.String("path", c.Request.URL.Path))
		h.serviceError(c, apperrors.ErrMissingIdentity, "Logout failed")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), identity.UserID); err != nil {
		h.serviceError(c, err, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User logged out successfully"))
}

// ChangePassword updates the caller's password after verifying the old one
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		logger.GetLogger().Error("ChangePassword reached without resolved identity",
			zap.String("path", c.Request.URL.Path))
		h.serviceError(c, apperrors.ErrMissingIdentity, "Password change failed")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), identity.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		h.serviceError(c, err, "Password change failed")
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Password updated successfully"))
}

func (h *AuthHandler) badRequest(c *gin.Context, err error) {
	var details any
	if h.debug {
		details = err.Error()
	}
	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
		"Invalid request format", apperrors.ErrBadInput.Code, details))
}

func (h *AuthHandler) serviceError(c *gin.Context, err error, logMessage string) {
	logger.GetLogger().Warn(logMessage,
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	var details any
	if h.debug && !apperrors.IsDomainError(err) {
		details = err.Error()
	}

	c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(
		apperrors.GetErrorMessage(err), apperrors.GetErrorCode(err), details))
}
