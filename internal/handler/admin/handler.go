// Package admin exposes the operator surface: login, settings, stats.
package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bloom/internal/model"
	"bloom/internal/model/settings"
	"bloom/internal/pkg/ctxutil"
	"bloom/internal/service"
)

// Handler serves the admin routes
type Handler struct {
	admin *service.AdminService
}

// NewHandler creates the admin handler
func NewHandler(admin *service.AdminService) *Handler {
	return &Handler{admin: admin}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an operator and issues a Bearer token
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.admin.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:    40103,
				Message: "Invalid username or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Code:    50000,
			Message: "Internal Server Error",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout is a no-op acknowledgement; tokens are stateless and expire on
// their own.
func (h *Handler) Logout(c *gin.Context) {
	if adminID, ok := ctxutil.GetAdminID(c.Request.Context()); ok {
		log.Info().Str("admin_id", adminID).Msg("admin logged out")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetSettings returns the settings singleton, created with defaults on
// first access.
func (h *Handler) GetSettings(c *gin.Context) {
	result, err := h.admin.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Code:    50000,
			Message: "Internal Server Error",
			Detail:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateSettings applies a partial settings patch
func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch settings.Update
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.admin.UpdateSettings(c.Request.Context(), &patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Code:    50000,
			Message: "Internal Server Error",
			Detail:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats returns the dashboard usage counters
func (h *Handler) Stats(c *gin.Context) {
	result, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Code:    50000,
			Message: "Internal Server Error",
			Detail:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
