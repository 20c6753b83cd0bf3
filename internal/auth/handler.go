// Package auth implements login and logout, exchanging a password for a
// session-backed bearer token, plus the middlewares that guard protected
// routes.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tmt/internal/session"
	"tmt/internal/token"
	"tmt/internal/users"
)

// Handler handles authentication HTTP requests
type Handler struct {
	users    users.Service
	sessions session.Manager
	codec    *token.Codec
	logger   *slog.Logger
}

// NewHandler creates a new authentication handler
func NewHandler(users users.Service, sessions session.Manager, codec *token.Codec, logger *slog.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, codec: codec, logger: logger}
}

// RegisterRoutes mounts the auth endpoints
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/authorize", h.Authorize)
	r.POST("/logout", TokenMiddleware(h.codec), h.Logout)
}

// Authorize handles POST /authorize. A successful login reuses the user's
// existing session when one is live, so repeated logins return tokens
// referencing the same session id.
func (h *Handler) Authorize(c *gin.Context) {
	var payload AuthPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing credentials"})
		return
	}
	if payload.ClientID == "" || payload.ClientSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing credentials"})
		return
	}

	ok, err := h.users.VerifyPassword(c.Request.Context(), payload.ClientID, payload.ClientSecret)
	if err != nil {
		h.logger.Error("failed to verify password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	sess, err := h.sessions.CreateOrGet(c.Request.Context(), payload.ClientID)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	claims := token.NewClaims(sess.UserID, sess.ID, sess.Expires)
	signed, err := h.codec.Encode(claims)
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token creation error"})
		return
	}

	c.JSON(http.StatusOK, NewAuthBody(signed))
}

// Logout handles POST /logout. It only requires a decodable token; the
// session delete is unconditional.
func (h *Handler) Logout(c *gin.Context) {
	sessionID, ok := SessionID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("failed to delete session", "session_id", sessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, LogoutResult{SessionID: sessionID, OK: true})
}
