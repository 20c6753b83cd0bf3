package tags

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tmt/internal/auth"
	"tmt/internal/pagination"
)

// Handler handles tag HTTP requests
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new tags handler
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the tag endpoints on an authenticated router group
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/tags", h.CreateTag)
	r.DELETE("/tags/:tag_id", h.DeleteTag)
	r.POST("/tabs/:tab_id/tags", h.AttachTag)
	r.DELETE("/tabs/:tab_id/tags/:tag_id", h.DetachTag)
	r.GET("/users/tags", h.ListTags)
	r.GET("/users/tags/fuzzy", h.SearchTags)
}

// CreateTag handles POST /tags
func (h *Handler) CreateTag(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	var req NewTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Wrong credentials"})
		return
	}

	tag, err := h.service.Create(c.Request.Context(), userID, req.Tag)
	if err != nil {
		h.logger.Error("failed to create tag", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// DeleteTag handles DELETE /tags/:tag_id. Deleting an absent or foreign tag
// still returns 200.
func (h *Handler) DeleteTag(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("tag_id")); err != nil {
		h.logger.Error("failed to delete tag", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusOK)
}

// AttachTag handles POST /tabs/:tab_id/tags
func (h *Handler) AttachTag(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	var req AttachTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TabID != c.Param("tab_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request"})
		return
	}
	if req.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Wrong credentials"})
		return
	}

	resp, err := h.service.Attach(c.Request.Context(), userID, req.TabID, req.TagID)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Wrong credentials"})
			return
		}
		h.logger.Error("failed to attach tag", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DetachTag handles DELETE /tabs/:tab_id/tags/:tag_id
func (h *Handler) DetachTag(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	resp, err := h.service.Detach(c.Request.Context(), userID, c.Param("tab_id"), c.Param("tag_id"))
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Wrong credentials"})
			return
		}
		h.logger.Error("failed to detach tag", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListTags handles GET /users/tags with pagination; the owner is taken from
// the session identity.
func (h *Handler) ListTags(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))

	result, err := h.service.List(c.Request.Context(), userID, pagination.New(page, pageSize))
	if err != nil {
		h.logger.Error("failed to list tags", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SearchTags handles GET /users/tags/fuzzy?fragment=
func (h *Handler) SearchTags(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	matches, err := h.service.Search(c.Request.Context(), userID, c.Query("fragment"))
	if err != nil {
		if errors.Is(err, ErrFragmentLength) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request"})
			return
		}
		h.logger.Error("failed to search tags", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, matches)
}
