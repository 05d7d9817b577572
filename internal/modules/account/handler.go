package account

import (
	"errors"
	"net/http"

	"aiplus/internal/config"
	"aiplus/internal/pkg/cookies"
	"aiplus/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	cfg     *config.Config
}

func NewHandler(service *Service, cfg *config.Config) *Handler {
	return &Handler{service: service, cfg: cfg}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	accountGroup := protected.Group("/account")
	{
		accountGroup.POST("/delete", h.RequestDeletion)
	}
}

func (h *Handler) RequestDeletion(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.RequestDeletion(c.Request.Context(), userID, req.Handle, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Handle does not match this account")
		case errors.Is(err, ErrInvalidPassword):
			response.Error(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Password is incorrect")
		case errors.Is(err, ErrAlreadyDeleted):
			response.Error(c, http.StatusConflict, "ALREADY_DELETED", "Deletion has already been requested")
		default:
			response.Error(c, http.StatusInternalServerError, "DELETION_FAILED", "Failed to delete account")
		}
		return
	}

	cookies.ClearAuth(c, h.cfg.CookieSecure)
	response.Success(c, http.StatusOK, gin.H{
		"message": "account scheduled for deletion, restorable for 30 days",
	})
}
