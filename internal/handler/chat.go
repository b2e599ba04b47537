package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloom/internal/model"
	"bloom/internal/pkg/catalog"
	"bloom/internal/service"
)

// ChatHandler serves the unified action endpoint and the single-shot
// storefront widget endpoint.
type ChatHandler struct {
	chats *service.ChatService
}

// NewChatHandler creates the chat handler
func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// HandleAction dispatches the unified chat request on its action field.
// Every widget operation flows through here.
func (h *ChatHandler) HandleAction(c *gin.Context) {
	var req model.ChatAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if !req.Action.IsValid() {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40002,
			Message: "Unknown action",
			Detail:  string(req.Action),
		})
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case model.ActionList:
		summaries, err := h.chats.ListChats(ctx, req.OwnerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, model.ChatListResponse{
			Chats: summaries,
			Total: len(summaries),
		})

	case model.ActionGet:
		chat, err := h.chats.GetChat(ctx, req.ChatID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, model.ChatDetailResponse{
			ID:         chat.ID.Hex(),
			Title:      chat.Title,
			Mode:       chat.Mode,
			IsFavorite: chat.IsFavorite,
			IsArchived: chat.IsArchived,
			Messages:   chat.Messages,
		})

	case model.ActionNew:
		chat, err := h.chats.NewChat(ctx, req.OwnerID, req.Mode)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, model.NewChatResponse{
			ChatID: chat.ID.Hex(),
			Title:  chat.Title,
			Mode:   chat.Mode,
		})

	case model.ActionMessage:
		result, err := h.chats.SendMessage(ctx, service.SendMessageInput{
			ChatID:  req.ChatID,
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

	case model.ActionDeleteAll:
		count, err := h.chats.DeleteAllChats(ctx, req.OwnerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, model.DeleteAllResponse{
			OK:           true,
			DeletedCount: count,
		})
	}
}

// Proxy serves the single-shot widget turn: no chat id needed, and the
// response carries catalog suggestions matched against the user message.
func (h *ChatHandler) Proxy(c *gin.Context) {
	var req model.ProxyChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.chats.ProxyMessage(c.Request.Context(), service.ProxyMessageInput{
		OwnerID: req.OwnerID,
		Content: req.Message,
		ChatID:  req.ChatID,
		Mode:    req.Mode,
		PageURL: req.PageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := model.ProxyChatResponse{
		Reply:  result.Reply,
		ChatID: result.ChatID,
	}
	if !result.Blocked {
		resp.Products = catalog.FindRelevant(req.Message)
	}
	c.JSON(http.StatusOK, resp)
}
