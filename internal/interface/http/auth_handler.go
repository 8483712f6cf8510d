package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/internal/application"
	"github.com/bluestock/ipo-api/internal/interface/middleware"
	"github.com/bluestock/ipo-api/pkg/helpers"
	"github.com/bluestock/ipo-api/pkg/response"
	"github.com/bluestock/ipo-api/pkg/validation"
)

const passwordTooLong = "Password must be at most 72 bytes"

type AuthHandler struct {
	Svc     *application.AuthService
	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
	// DebugResetToken echoes the issued reset token as debug_token.
	DebugResetToken bool
}

func NewAuthHandler(svc *application.AuthService, jwt *helpers.JWTManager, cookies *helpers.CookieManager, logger *logrus.Logger, debugResetToken bool) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Cookies: cookies, Logger: logger, DebugResetToken: debugResetToken}
}

// Signup POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var in application.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badPayload(c, err, "All fields are required")
		return
	}
	_, err := h.Svc.Signup(c.Request.Context(), in)
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, gin.H{"message": "User created successfully"})
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, application.ErrConflict):
		response.Error(c, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, application.ErrPasswordTooLong):
		response.Error(c, http.StatusBadRequest, passwordTooLong)
	default:
		h.internal(c, "signup failed", err, "Error inserting data into database")
	}
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badPayload(c, err, "All fields are required")
		return
	}
	user, err := h.Svc.Login(c.Request.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "All fields are required")
		return
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	default:
		h.internal(c, "login failed", err, "Internal server error")
		return
	}

	if h.JWT != nil && h.Cookies != nil {
		token, exp, err := h.JWT.GenerateAccessToken(user.ID)
		if err != nil {
			h.internal(c, "issue access token", err, "Internal server error")
			return
		}
		h.Cookies.SetAccess(c, token, exp)
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

// ForgotPassword POST /forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in application.ForgotPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badPayload(c, err, "Email is required")
		return
	}
	ticket, err := h.Svc.ForgotPassword(c.Request.Context(), in)
	switch {
	case err == nil:
		body := gin.H{"message": "Password reset link has been sent to your email"}
		if h.DebugResetToken {
			body["debug_token"] = ticket.Token
		}
		response.Success(c, http.StatusOK, body)
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "Email is required")
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	default:
		h.internal(c, "forgot password failed", err, "Error processing password reset request")
	}
}

// ResetPassword POST /reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in application.ResetPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badPayload(c, err, "Token and new password are required")
		return
	}
	err := h.Svc.ResetPassword(c.Request.Context(), in)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"message": "Password has been reset successfully"})
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "Token and new password are required")
	case errors.Is(err, application.ErrInvalidToken):
		response.Error(c, http.StatusBadRequest, "Invalid or expired reset token")
	case errors.Is(err, application.ErrPasswordTooLong):
		response.Error(c, http.StatusBadRequest, passwordTooLong)
	default:
		h.internal(c, "reset password failed", err, "Error resetting password")
	}
}

// Me GET /me (auth required)
func (h *AuthHandler) Me(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := h.Svc.Profile(c.Request.Context(), uid)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"user": user})
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
	default:
		h.internal(c, "load profile failed", err, "Internal server error")
	}
}

func (h *AuthHandler) badPayload(c *gin.Context, err error, msg string) {
	if h.Logger != nil {
		h.Logger.WithField("details", validation.ToDetails(err)).Debug("rejected payload")
	}
	response.Error(c, http.StatusBadRequest, msg)
}

func (h *AuthHandler) internal(c *gin.Context, logMsg string, err error, msg string) {
	helpers.LogError(h.Logger, logMsg, err, logrus.Fields{"request_id": c.GetString(middleware.CtxRequestIDKey)})
	response.Error(c, http.StatusInternalServerError, msg)
}
