package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/natadigital/auth-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTestRouter(issuer *service.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := NewAuthMiddleware(issuer)
	router.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id": identity.UserID,
			"email":   identity.Email,
			"role":    identity.Role,
		})
	})

	return router
}

func TestRequireAuth_ValidToken(t *testing.T) {
	issuer := service.NewTokenIssuer("test-signing-secret", 900*time.Second)
	router := setupAuthTestRouter(issuer)

	token, err := issuer.IssueAccess(7, "a@x.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	issuer := service.NewTokenIssuer("test-signing-secret", 900*time.Second)
	router := setupAuthTestRouter(issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_IDENTITY")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	issuer := service.NewTokenIssuer("test-signing-secret", 900*time.Second)
	router := setupAuthTestRouter(issuer)

	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expiredIssuer := service.NewTokenIssuer("test-signing-secret", -time.Minute)
	router := setupAuthTestRouter(expiredIssuer)

	token, err := expiredIssuer.IssueAccess(7, "a@x.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	issuer := service.NewTokenIssuer("test-signing-secret", 900*time.Second)
	router := setupAuthTestRouter(issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_MALFORMED")
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	issuer := service.NewTokenIssuer("test-signing-secret", 900*time.Second)
	router := setupAuthTestRouter(issuer)

	other := service.NewTokenIssuer("another-secret", 900*time.Second)
	token, err := other.IssueAccess(7, "a@x.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}
