package auth

import (
	"errors"
	"net/http"

	"aiplus/internal/config"
	"aiplus/internal/pkg/cookies"
	"aiplus/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for sessions
type Handler struct {
	service *Service
	tokens  tokenService
	cfg     *config.Config
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service, tokens tokenService, cfg *config.Config) *Handler {
	return &Handler{service: service, tokens: tokens, cfg: cfg}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-login-sms", h.VerifyLoginSMS)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/session", h.Session)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/logout-all", h.LogoutAll)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	baseURL := h.cfg.BaseURL(c.GetHeader("X-Forwarded-Proto"), c.GetHeader("X-Forwarded-Host"))
	user, err := h.service.Register(c.Request.Context(), req, baseURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrEmailTaken):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		case errors.Is(err, ErrHandleTaken):
			response.Error(c, http.StatusConflict, "HANDLE_EXISTS", "This handle is already taken")
		case errors.Is(err, ErrPhoneTaken):
			response.Error(c, http.StatusConflict, "PHONE_EXISTS", "This phone number is already registered")
		default:
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user": UserPublic{ID: user.ID, Handle: user.Handle, Email: user.Email},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.loginError(c, err)
		return
	}

	cookies.SetAuth(c, result.AccessToken, result.RefreshToken, h.cfg.AccessTTL, h.cfg.RefreshTTL, h.cfg.CookieSecure)
	response.Success(c, http.StatusOK, gin.H{
		"user": UserPublic{ID: result.User.ID, Handle: result.User.Handle, Email: result.User.Email},
	})
}

func (h *Handler) VerifyLoginSMS(c *gin.Context) {
	var req VerifyLoginSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.VerifyLoginSMS(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.loginError(c, err)
		return
	}

	cookies.SetAuth(c, result.AccessToken, result.RefreshToken, h.cfg.AccessTTL, h.cfg.RefreshTTL, h.cfg.CookieSecure)
	response.Success(c, http.StatusOK, gin.H{
		"user": UserPublic{ID: result.User.ID, Handle: result.User.Handle, Email: result.User.Email},
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshRaw, err := c.Cookie(cookies.RefreshTokenName)
	if err != nil || refreshRaw == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), refreshRaw, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh session")
		return
	}

	cookies.SetAuth(c, result.AccessToken, result.RefreshToken, h.cfg.AccessTTL, h.cfg.RefreshTTL, h.cfg.CookieSecure)
	response.Success(c, http.StatusOK, gin.H{"message": "session refreshed"})
}

func (h *Handler) Logout(c *gin.Context) {
	refreshRaw, _ := c.Cookie(cookies.RefreshTokenName)

	if err := h.service.Logout(c.Request.Context(), refreshRaw); err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout")
		return
	}

	cookies.ClearAuth(c, h.cfg.CookieSecure)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// LogoutAll requires a valid access token (middleware), not the refresh
// token: revoking every device is an authenticated action.
func (h *Handler) LogoutAll(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	if err := h.service.LogoutAll(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout")
		return
	}

	cookies.ClearAuth(c, h.cfg.CookieSecure)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out everywhere"})
}

func (h *Handler) Session(c *gin.Context) {
	accessToken, err := c.Cookie(cookies.AccessTokenName)
	if err != nil || accessToken == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	claims, err := h.tokens.Verify(accessToken)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": UserPublic{ID: claims.Subject, Handle: claims.Handle, Email: claims.Email},
	})
}

func (h *Handler) loginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No account matches that identifier")
	case errors.Is(err, ErrInvalidPassword):
		response.Error(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Password is incorrect")
	case errors.Is(err, ErrAccountLocked):
		response.Error(c, http.StatusLocked, "ACCOUNT_LOCKED", "Too many attempts, try again later")
	case errors.Is(err, ErrAccountDeleted):
		response.Error(c, http.StatusForbidden, "ACCOUNT_DELETED", "This account has been deleted")
	case errors.Is(err, ErrAccountPendingDeletion):
		response.Error(c, http.StatusForbidden, "DELETION_PENDING", "Deletion is in progress; the account can be restored within 30 days")
	case errors.Is(err, ErrNotVerified):
		response.Error(c, http.StatusForbidden, "NOT_VERIFIED", "Identity verification is not complete")
	case errors.Is(err, ErrSMSRequired):
		response.Error(c, http.StatusForbidden, "SMS_REQUIRED", "Additional SMS verification required")
	case errors.Is(err, ErrSecretExpired):
		response.Error(c, http.StatusBadRequest, "SECRET_EXPIRED", "The SMS code has expired")
	case errors.Is(err, ErrInvalidSecret):
		response.Error(c, http.StatusBadRequest, "INVALID_SECRET", "The SMS code is incorrect")
	default:
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
	}
}
