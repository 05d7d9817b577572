package verification

import (
	"errors"
	"net/http"

	"aiplus/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	verifyGroup := v1.Group("/verify")
	{
		verifyGroup.POST("/email", h.ConfirmEmail)
		verifyGroup.POST("/sms", h.ConfirmSMS)
	}
}

func (h *Handler) ConfirmEmail(c *gin.Context) {
	var req ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.ConfirmEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.confirmError(c, err, "verification token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "email verified",
		"handle":  user.Handle,
	})
}

func (h *Handler) ConfirmSMS(c *gin.Context) {
	var req ConfirmSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.ConfirmSMS(c.Request.Context(), req.Handle, req.Code)
	if err != nil {
		h.confirmError(c, err, "verification code")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "phone verified",
		"handle":  user.Handle,
	})
}

func (h *Handler) confirmError(c *gin.Context, err error, secretName string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
	case errors.Is(err, ErrSecretExpired):
		response.Error(c, http.StatusBadRequest, "SECRET_EXPIRED", "The "+secretName+" has expired, request a new one")
	case errors.Is(err, ErrInvalidSecret):
		response.Error(c, http.StatusBadRequest, "INVALID_SECRET", "The "+secretName+" is incorrect")
	default:
		response.Error(c, http.StatusInternalServerError, "VERIFICATION_FAILED", "Failed to verify")
	}
}
