package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisthub/internal/pkg/jwt"
	"artisthub/internal/pkg/tokenstore"
)

func protectedRouter(t *testing.T, jwtService *jwt.Service, revoker tokenstore.Revoker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuth(jwtService, revoker))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": CallerID(c),
			"jti":     Claims(c).ID,
		})
	})
	return router
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	validToken, _ := jwtService.GenerateToken(42)
	router := protectedRouter(t, jwtService, tokenstore.NewMemoryRevoker())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	router := protectedRouter(t, jwt.New("wrong-secret", time.Hour), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_NoToken(t *testing.T) {
	router := protectedRouter(t, jwt.New("secret", time.Hour), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
	assert.Contains(t, w.Body.String(), `"status":401`)
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	router := protectedRouter(t, jwt.New("secret", time.Hour), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	revoker := tokenstore.NewMemoryRevoker()
	token, _ := jwtService.GenerateToken(7)
	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Hour))

	router := protectedRouter(t, jwtService, revoker)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}
