package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloom/internal/model"
	"bloom/internal/model/chat"
	"bloom/internal/service"
)

// ConversationHandler exposes the REST routes some storefront themes still
// call. Every route delegates to the same pipeline as the action endpoint.
type ConversationHandler struct {
	chats *service.ChatService
}

// NewConversationHandler creates the REST conversation handler
func NewConversationHandler(chats *service.ChatService) *ConversationHandler {
	return &ConversationHandler{chats: chats}
}

// List returns the owner's chat summaries
func (h *ConversationHandler) List(c *gin.Context) {
	summaries, err := h.chats.ListChats(c.Request.Context(), c.Query("owner_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ChatListResponse{
		Chats: summaries,
		Total: len(summaries),
	})
}

// Get returns one full conversation
func (h *ConversationHandler) Get(c *gin.Context) {
	result, err := h.chats.GetChat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ChatDetailResponse{
		ID:         result.ID.Hex(),
		Title:      result.Title,
		Mode:       result.Mode,
		IsFavorite: result.IsFavorite,
		IsArchived: result.IsArchived,
		Messages:   result.Messages,
	})
}

type createChatRequest struct {
	OwnerID string    `json:"owner_id" binding:"required"`
	Mode    chat.Mode `json:"mode,omitempty"`
}

// Create starts an empty conversation
func (h *ConversationHandler) Create(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.chats.NewChat(c.Request.Context(), req.OwnerID, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewChatResponse{
		ChatID: result.ID.Hex(),
		Title:  result.Title,
		Mode:   result.Mode,
	})
}

type sendMessageRequest struct {
	OwnerID string    `json:"owner_id" binding:"required"`
	Content string    `json:"content" binding:"required"`
	Mode    chat.Mode `json:"mode,omitempty"`
	PageURL string    `json:"page_url,omitempty"`
}

// SendMessage runs one turn against an existing conversation
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.chats.SendMessage(c.Request.Context(), service.SendMessageInput{
		ChatID:  c.Param("id"),
		OwnerID: req.OwnerID,
		Content: req.Content,
		Mode:    req.Mode,
		PageURL: req.PageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{
		Reply:    result.Reply,
		Messages: result.Messages,
		ChatID:   result.ChatID,
		Title:    result.Title,
	})
}

// Update patches chat metadata
func (h *ConversationHandler) Update(c *gin.Context) {
	var req model.UpdateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.chats.UpdateChatMeta(c.Request.Context(), c.Param("id"),
		req.Title, req.IsFavorite, req.IsArchived, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ChatDetailResponse{
		ID:         result.ID.Hex(),
		Title:      result.Title,
		Mode:       result.Mode,
		IsFavorite: result.IsFavorite,
		IsArchived: result.IsArchived,
		Messages:   result.Messages,
	})
}

// Delete removes one conversation
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.chats.DeleteChat(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteAll removes every conversation of the owner
func (h *ConversationHandler) DeleteAll(c *gin.Context) {
	count, err := h.chats.DeleteAllChats(c.Request.Context(), c.Query("owner_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DeleteAllResponse{
		OK:           true,
		DeletedCount: count,
	})
}
