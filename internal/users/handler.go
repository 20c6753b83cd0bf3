package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles user and invite HTTP requests
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new users handler
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the public user/invite endpoints
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/users", h.CreateUser)
	r.POST("/users/invites/:invite_id", h.MarkInviteSent)
	r.GET("/users/invites/:invite_id", h.GetInvite)
	r.POST("/users/:user_id", h.ConfirmUser)
}

// CreateUser handles POST /users: signup producing an unconfirmed user and
// an invite.
func (h *Handler) CreateUser(c *gin.Context) {
	var req NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.CreateUserAndInvite(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Database error: email already registered"})
			return
		}
		h.logger.Error("failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkInviteSent handles POST /users/invites/:invite_id
func (h *Handler) MarkInviteSent(c *gin.Context) {
	inv, err := h.service.MarkInviteSent(c.Request.Context(), c.Param("invite_id"))
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		h.logger.Error("failed to mark invite sent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// GetInvite handles GET /users/invites/:invite_id
func (h *Handler) GetInvite(c *gin.Context) {
	inv, err := h.service.GetInvite(c.Request.Context(), c.Param("invite_id"))
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		h.logger.Error("failed to get invite", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// ConfirmUser handles POST /users/:user_id with {email, invite_id}. The
// invite must match on id, user, and email, and still be within its window.
func (h *Handler) ConfirmUser(c *gin.Context) {
	var req ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.ConfirmUser(c.Request.Context(), req.InviteID, c.Param("user_id"), req.Email)
	if err != nil {
		if errors.Is(err, ErrInviteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		h.logger.Error("failed to confirm user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}
