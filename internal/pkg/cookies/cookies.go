package cookies

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenName  = "access_token"
	RefreshTokenName = "refresh_token"
)

// SetAuth writes both session cookies: HTTP-only, SameSite=Strict, secure
// when the deployment is. Max ages follow the token TTLs.
func SetAuth(c *gin.Context, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenName, accessToken, int(accessTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(RefreshTokenName, refreshToken, int(refreshTTL.Seconds()), "/", "", secure, true)
}

// ClearAuth expires both cookies.
func ClearAuth(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenName, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenName, "", -1, "/", "", secure, true)
}
