package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "daylog/internal/errors"
	"daylog/internal/middleware"
	"daylog/internal/services"
	"daylog/internal/session"
)

// AuthHandler handles authentication requests for the single admin user.
type AuthHandler struct {
	auth     services.AuthServicer
	sessions session.Store
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth services.AuthServicer, sessions session.Store) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login checks the admin password and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if !h.auth.VerifyPassword(req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.sessions.Issue()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// Verify reports whether the presented bearer token is still valid.
// It always answers 200; the verdict is in the body.
func (h *AuthHandler) Verify(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	valid := ok && h.sessions.Validate(token)
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// Logout revokes the presented bearer token.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}
	h.sessions.Revoke(token)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
