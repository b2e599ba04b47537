package model

import (
	"bloom/internal/model/chat"
)

// Action is the closed set of operations the unified chat endpoint accepts
type Action string

const (
	ActionList      Action = "list"
	ActionGet       Action = "get"
	ActionNew       Action = "new"
	ActionMessage   Action = "message"
	ActionDeleteAll Action = "deleteAll"
)

// IsValid checks whether the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionList, ActionGet, ActionNew, ActionMessage, ActionDeleteAll:
		return true
	}
	return false
}

// ChatAPIRequest is the unified action-dispatched chat request.
// Required fields depend on the action; handlers validate presence before
// any side effect.
type ChatAPIRequest struct {
	Action  Action    `json:"action" binding:"required"`
	OwnerID string    `json:"owner_id"`
	ChatID  string    `json:"chat_id,omitempty"`
	Content string    `json:"content,omitempty"`
	Mode    chat.Mode `json:"mode,omitempty"`
	PageURL string    `json:"page_url,omitempty"`
}

// ProxyChatRequest is the single-shot storefront widget request
type ProxyChatRequest struct {
	OwnerID string    `json:"owner_id" binding:"required"`
	Message string    `json:"message" binding:"required"`
	ChatID  string    `json:"chat_id,omitempty"`
	Mode    chat.Mode `json:"mode,omitempty"`
	PageURL string    `json:"page_url,omitempty"`
}

// MigrateChatsRequest bridges an anonymous visitor identity into a Google
// account on first sign-in
type MigrateChatsRequest struct {
	VisitorID    string `json:"visitor_id" binding:"required"`
	GoogleUserID string `json:"google_user_id" binding:"required"`
}

// GoogleSignInRequest carries the Google ID token from the widget
type GoogleSignInRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// UpdateChatRequest patches chat metadata; nil fields are left untouched
type UpdateChatRequest struct {
	Title      *string    `json:"title,omitempty"`
	IsFavorite *bool      `json:"is_favorite,omitempty"`
	IsArchived *bool      `json:"is_archived,omitempty"`
	Mode       *chat.Mode `json:"mode,omitempty"`
}
