package middleware

import (
	"net/http"

	"aiplus/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// CookieAuth authenticates requests by the access_token cookie. The token
// is self-contained, so this never touches the store; revocation only
// applies to refresh tokens.
func CookieAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			abortUnauthenticated(c)
			return
		}

		claims, err := jwtService.Verify(token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Set("handle", claims.Handle)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHENTICATED",
			"message": "Authentication required",
		},
	})
}
