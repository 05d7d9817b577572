package recovery

import (
	"errors"
	"net/http"

	"aiplus/internal/config"
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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/forgot-password", h.ForgotPassword)
	v1.POST("/forgot-email", h.ForgotEmail)
	v1.POST("/reset-password", h.ResetPassword)
}

// ForgotPassword answers 404 for an unknown address. Disclosing account
// existence here is a deliberate product decision carried over from the
// web client this API serves.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	baseURL := h.cfg.BaseURL(c.GetHeader("X-Forwarded-Proto"), c.GetHeader("X-Forwarded-Host"))
	err := h.service.ForgotPassword(c.Request.Context(), req.Email, baseURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No account matches that email")
		case errors.Is(err, ErrDeliveryFailure):
			response.Error(c, http.StatusBadGateway, "DELIVERY_FAILURE", "Could not deliver the reset instructions")
		default:
			response.Error(c, http.StatusInternalServerError, "RESET_FAILED", "Failed to start password reset")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "reset instructions sent"})
}

func (h *Handler) ForgotEmail(c *gin.Context) {
	var req ForgotEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	masked, err := h.service.ForgotEmail(c.Request.Context(), req.PhoneNumber, req.BirthDate)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No account matches those details")
		default:
			response.Error(c, http.StatusInternalServerError, "LOOKUP_FAILED", "Failed to look up email")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"email": masked})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrSecretUsed):
			response.Error(c, http.StatusBadRequest, "SECRET_USED", "This reset link was already used")
		case errors.Is(err, ErrSecretExpired):
			response.Error(c, http.StatusBadRequest, "SECRET_EXPIRED", "This reset link has expired, request a new one")
		case errors.Is(err, ErrInvalidSecret):
			response.Error(c, http.StatusBadRequest, "INVALID_SECRET", "The reset token or code is incorrect")
		case errors.Is(err, ErrPasswordReused):
			response.Error(c, http.StatusBadRequest, "PASSWORD_REUSED", "Choose a password you have not used recently")
		default:
			response.Error(c, http.StatusInternalServerError, "RESET_FAILED", "Failed to reset password")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}
