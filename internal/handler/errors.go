package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bloom/internal/model"
	"bloom/internal/service"
)

// respondError maps service errors onto the shared error envelope
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOwnerIDRequired),
		errors.Is(err, service.ErrChatIDRequired),
		errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40002,
			Message: "Missing or invalid field",
			Detail:  err.Error(),
		})
	case errors.Is(err, service.ErrMessageTooLong):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40003,
			Message: "Message too long",
			Detail:  err.Error(),
		})
	case errors.Is(err, service.ErrChatNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Code:    40401,
			Message: "Chat not found",
		})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Code:    40402,
			Message: "User not found",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Code:    40103,
			Message: "Invalid username or password",
		})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Code:    50000,
			Message: "Internal Server Error",
			Detail:  err.Error(),
		})
	}
}

// badRequest reports a body that failed binding
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Code:    40001,
		Message: "Invalid request body",
		Detail:  err.Error(),
	})
}
