package tabs

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tmt/internal/auth"
	"tmt/internal/pagination"
)

// Handler handles tab HTTP requests
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new tabs handler
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the tab endpoints on an authenticated router group
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/tabs", h.CreateTab)
	r.GET("/tabs/:tab_id", h.GetTab)
	r.PUT("/tabs/:tab_id", h.UpdateTab)
	r.DELETE("/tabs/:tab_id", h.DeleteTab)
	r.GET("/users/tabs", h.ListTabs)
}

// CreateTab handles POST /tabs
func (h *Handler) CreateTab(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	var req NewTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Wrong credentials"})
		return
	}

	tab, err := h.service.Create(c.Request.Context(), userID, req.URL, req.Notes)
	if err != nil {
		h.logger.Error("failed to create tab", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, tab)
}

// GetTab handles GET /tabs/:tab_id
func (h *Handler) GetTab(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	tab, err := h.service.Get(c.Request.Context(), userID, c.Param("tab_id"))
	if err != nil {
		if errors.Is(err, ErrTabNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		h.logger.Error("failed to get tab", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, tab)
}

// UpdateTab handles PUT /tabs/:tab_id. The tag list is a full replacement of
// the tab's attached set.
func (h *Handler) UpdateTab(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	var req UpdateTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Update(c.Request.Context(), userID, c.Param("tab_id"), req.Tab, req.Tags)
	if err != nil {
		if errors.Is(err, ErrTabNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		h.logger.Error("failed to update tab", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteTab handles DELETE /tabs/:tab_id
func (h *Handler) DeleteTab(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("tab_id")); err != nil {
		if errors.Is(err, ErrTabNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		h.logger.Error("failed to delete tab", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTabs handles GET /users/tabs with pagination, newest tabs first
func (h *Handler) ListTabs(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong credentials"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))

	result, err := h.service.List(c.Request.Context(), userID, pagination.New(page, pageSize))
	if err != nil {
		h.logger.Error("failed to list tabs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
