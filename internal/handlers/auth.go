package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/userhubio/userhub/internal/auth"
	"github.com/userhubio/userhub/internal/middleware"
	"github.com/userhubio/userhub/internal/schemas"
	"github.com/userhubio/userhub/internal/services"
	apperrors "github.com/userhubio/userhub/pkg/errors"
	"github.com/userhubio/userhub/pkg/response"
)

// AuthHandler exposes registration, login, verification, and password reset.
type AuthHandler struct {
	users *services.UserService
	jwt   *auth.JWTService
}

// NewAuthHandler wires the handler to its services.
func NewAuthHandler(users *services.UserService, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type verifyEmailRequest struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var body schemas.CreateUser
	if !bindJSON(c, &body) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, schemas.NewUserResponse(user))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body schemas.LoginRequest
	if !bindJSON(c, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user)
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "failed to issue access token"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.jwt.TTL().Seconds()),
		"user":         schemas.NewUserResponse(user),
	})
}

// POST /api/auth/verify
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var body verifyEmailRequest
	if !bindJSON(c, &body) {
		return
	}

	if err := h.users.VerifyEmail(c.Request.Context(), body.UserID, body.Token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true})
}

// POST /api/auth/password — resets the authenticated user's own password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var body resetPasswordRequest
	if !bindJSON(c, &body) {
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), claims.UserID, body.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}
