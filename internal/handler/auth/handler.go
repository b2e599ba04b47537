// Package auth exposes shopper Google sign-in and chat migration.
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bloom/internal/model"
	"bloom/internal/pkg/googleauth"
	"bloom/internal/service"
)

// Handler serves the shopper auth routes
type Handler struct {
	auth           *service.AuthService
	googleClientID string
}

// NewHandler creates the shopper auth handler
func NewHandler(auth *service.AuthService, googleClientID string) *Handler {
	return &Handler{
		auth:           auth,
		googleClientID: googleClientID,
	}
}

// GoogleSignIn verifies a Google credential and returns the shopper account
func (h *Handler) GoogleSignIn(c *gin.Context) {
	var req model.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	user, err := h.auth.SignIn(c.Request.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, googleauth.ErrInvalidCredential) || errors.Is(err, googleauth.ErrWrongAudience) {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:    40104,
				Message: "Invalid Google credential",
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

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": user,
	})
}

// GetUser returns one shopper profile
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Code:    40402,
				Message: "User not found",
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
	c.JSON(http.StatusOK, user)
}

// MigrateChats moves anonymous visitor chats under the signed-in account
func (h *Handler) MigrateChats(c *gin.Context) {
	var req model.MigrateChatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	count, err := h.auth.MigrateChats(c.Request.Context(), req.VisitorID, req.GoogleUserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Code:    40402,
				Message: "User not found",
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

	c.JSON(http.StatusOK, model.MigrateChatsResponse{
		OK:            true,
		MigratedCount: count,
	})
}

// Config exposes the public widget configuration
func (h *Handler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"google_client_id": h.googleClientID,
	})
}
