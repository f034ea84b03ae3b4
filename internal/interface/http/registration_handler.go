package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adityarw/registration-service/internal/application"
	repo "github.com/adityarw/registration-service/internal/domain/repository"
	"github.com/adityarw/registration-service/pkg/helpers"
	"github.com/adityarw/registration-service/pkg/response"
	"github.com/adityarw/registration-service/pkg/validation"
)

type RegistrationHandler struct {
	Registration *application.RegistrationService
	Verification *application.VerificationService
	Logger       *logrus.Logger
}

func NewRegistrationHandler(reg *application.RegistrationService, ver *application.VerificationService, logger *logrus.Logger) *RegistrationHandler {
	return &RegistrationHandler{Registration: reg, Verification: ver, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Register POST /api/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Registration.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrMissingFields):
			response.Error[any](c, http.StatusBadRequest, "please enter all fields", nil)
		case errors.Is(err, application.ErrUserAlreadyExists), errors.Is(err, repo.ErrDuplicateEmail):
			response.Error[any](c, http.StatusBadRequest, "user already exists", nil)
		case errors.Is(err, application.ErrMailDelivery):
			response.Error[any](c, http.StatusBadRequest, "failed to send verification email", nil)
		default:
			h.logInternal(c, err, "registration failed")
			response.Error[any](c, http.StatusInternalServerError, "server error", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user_id": u.ID},
		"user registered, please check your email to verify your account")
}

// VerifyEmail GET /api/verify-email?token=...
func (h *RegistrationHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error[any](c, http.StatusBadRequest, "missing token", nil)
		return
	}

	u, err := h.Verification.Verify(c.Request.Context(), token)
	if err != nil {
		switch {
		// Invalid and expired are deliberately indistinguishable to callers.
		case errors.Is(err, application.ErrMissingToken):
			response.Error[any](c, http.StatusBadRequest, "missing token", nil)
		case errors.Is(err, helpers.ErrInvalidToken), errors.Is(err, helpers.ErrExpiredToken):
			response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusBadRequest, "user not found", nil)
		case errors.Is(err, application.ErrAlreadyVerified):
			response.Error[any](c, http.StatusBadRequest, "user is already verified", nil)
		default:
			h.logInternal(c, err, "verification failed")
			response.Error[any](c, http.StatusInternalServerError, "server error", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user_id": u.ID, "verified": true}, "email successfully verified")
}

// Healthz GET /api/healthz
func (h *RegistrationHandler) Healthz(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"ok": true}, "healthy")
}

func (h *RegistrationHandler) logInternal(c *gin.Context, err error, msg string) {
	if h.Logger == nil {
		return
	}
	h.Logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"ip":         clientIP(c),
		"path":       c.FullPath(),
	}).Error(msg)
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
