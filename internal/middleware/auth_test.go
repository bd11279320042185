package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	jwtsvc "yogastudio/internal/pkg/jwt"
)

func protectedRouter(jwt *jwtsvc.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(jwt))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"email":   c.GetString("user_email"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	jwt := jwtsvc.New("test-secret-123", time.Hour)
	token, err := jwt.GenerateToken(42, "yogi@example.com", "client")
	assert.NoError(t, err)

	router := protectedRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "yogi@example.com")
	assert.Contains(t, w.Body.String(), "client")
}

func TestAuth_NoHeader(t *testing.T) {
	router := protectedRouter(jwtsvc.New("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
}

func TestAuth_WrongScheme(t *testing.T) {
	router := protectedRouter(jwtsvc.New("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_TokenSignedWithOtherSecret(t *testing.T) {
	other := jwtsvc.New("other-secret", time.Hour)
	token, _ := other.GenerateToken(42, "yogi@example.com", "client")

	router := protectedRouter(jwtsvc.New("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	jwt := jwtsvc.New("secret", -time.Minute)
	token, _ := jwt.GenerateToken(42, "yogi@example.com", "client")

	router := protectedRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
