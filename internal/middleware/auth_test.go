package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aiplus/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newProtectedRouter(jwtService *jwt.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CookieAuth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"handle":  c.GetString("handle"),
		})
	})
	return router
}

func TestCookieAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour, 30*24*time.Hour)
	token, _ := jwtService.IssueAccessToken("u-42", "ab@example.com", "abuser")

	router := newProtectedRouter(jwtService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-42")
	assert.Contains(t, w.Body.String(), "abuser")
}

func TestCookieAuth_MissingCookie(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour, 30*24*time.Hour)
	router := newProtectedRouter(jwtService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
}

func TestCookieAuth_ExpiredToken(t *testing.T) {
	issuer := jwt.New("test-secret-123", -time.Minute, 30*24*time.Hour)
	token, _ := issuer.IssueAccessToken("u-42", "ab@example.com", "abuser")

	router := newProtectedRouter(jwt.New("test-secret-123", time.Hour, 30*24*time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCookieAuth_TamperedToken(t *testing.T) {
	other := jwt.New("another-secret", time.Hour, 30*24*time.Hour)
	token, _ := other.IssueAccessToken("u-42", "ab@example.com", "abuser")

	router := newProtectedRouter(jwt.New("test-secret-123", time.Hour, 30*24*time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
