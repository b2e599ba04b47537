package model

import (
	"bloom/internal/model/chat"
	"bloom/internal/pkg/catalog"
)

// ErrorResponse is the error envelope shared by all APIs
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ChatListResponse answers the list action
type ChatListResponse struct {
	Chats []chat.Summary `json:"chats"`
	Total int            `json:"total"`
}

// ChatDetailResponse answers the get action
type ChatDetailResponse struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Mode       chat.Mode      `json:"mode"`
	IsFavorite bool           `json:"is_favorite"`
	IsArchived bool           `json:"is_archived"`
	Messages   []chat.Message `json:"messages"`
}

// NewChatResponse answers the new action
type NewChatResponse struct {
	ChatID string    `json:"chat_id"`
	Title  string    `json:"title"`
	Mode   chat.Mode `json:"mode"`
}

// MessageResponse answers the message action. Blocked turns carry the fixed
// refusal in Reply without a new assistant message in Messages.
type MessageResponse struct {
	Reply    string         `json:"reply"`
	Messages []chat.Message `json:"messages"`
	ChatID   string         `json:"chat_id"`
	Title    string         `json:"title"`
}

// ProxyChatResponse answers the single-shot widget endpoint; Products holds
// catalog-matcher suggestions for the storefront to render.
type ProxyChatResponse struct {
	Reply    string            `json:"reply"`
	ChatID   string            `json:"chat_id"`
	Products []catalog.Product `json:"products,omitempty"`
}

// DeleteAllResponse answers the deleteAll action
type DeleteAllResponse struct {
	OK           bool  `json:"ok"`
	DeletedCount int64 `json:"deleted_count"`
}

// MigrateChatsResponse reports a visitor-to-account migration
type MigrateChatsResponse struct {
	OK            bool  `json:"ok"`
	MigratedCount int64 `json:"migrated_count"`
}
