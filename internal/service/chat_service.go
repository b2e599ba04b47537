package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/ai"
	"bloom/internal/model/chat"
	"bloom/internal/model/settings"
	"bloom/internal/pkg/moderation"
	"bloom/internal/pkg/prompt"
)

var (
	ErrOwnerIDRequired = errors.New("owner id required")
	ErrChatIDRequired  = errors.New("chat id required")
	ErrEmptyMessage    = errors.New("message content required")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrChatNotFound    = errors.New("chat not found")
)

// listLimit caps list responses; previewLen caps the last-message preview
const (
	listLimit  = 50
	previewLen = 60
)

// ChatStore is the conversation persistence the pipeline needs
type ChatStore interface {
	Create(ctx context.Context, c *chat.Chat) error
	FindByID(ctx context.Context, id string) (*chat.Chat, error)
	FindByOwner(ctx context.Context, ownerID string) (*chat.Chat, error)
	ListByOwner(ctx context.Context, ownerID string, archived, favoriteOnly bool, limit int64) ([]*chat.Chat, error)
	AppendMessages(ctx context.Context, id string, msgs ...chat.Message) error
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	MigrateOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error)
}

// SettingsStore supplies the lazily-created settings singleton
type SettingsStore interface {
	GetOrCreate(ctx context.Context) (*settings.Settings, error)
}

// Completer is the completion gateway boundary
type Completer interface {
	Complete(ctx context.Context, params ai.Params, messages []*schema.Message) (string, error)
}

// ChatService orchestrates the conversation pipeline:
// validate -> load -> moderate -> assemble -> complete -> persist -> respond.
type ChatService struct {
	chats    ChatStore
	settings SettingsStore
	ai       Completer
}

// NewChatService creates the conversation service
func NewChatService(chats ChatStore, settingsStore SettingsStore, completer Completer) *ChatService {
	return &ChatService{
		chats:    chats,
		settings: settingsStore,
		ai:       completer,
	}
}

// ListChats returns the owner's non-archived chats, newest-updated first,
// as metadata summaries without message bodies.
func (s *ChatService) ListChats(ctx context.Context, ownerID string) ([]chat.Summary, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}

	chats, err := s.chats.ListByOwner(ctx, ownerID, false, false, listLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]chat.Summary, len(chats))
	for i, c := range chats {
		summaries[i] = c.Summarize(previewLen)
	}
	return summaries, nil
}

// GetChat loads one full conversation; an absent chat is an error, never an
// empty result.
func (s *ChatService) GetChat(ctx context.Context, chatID string) (*chat.Chat, error) {
	if chatID == "" {
		return nil, ErrChatIDRequired
	}

	c, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return c, nil
}

// NewChat creates an empty conversation with the default title. Multiple
// empty chats per owner are allowed; reusing one is the widget's concern.
func (s *ChatService) NewChat(ctx context.Context, ownerID string, mode chat.Mode) (*chat.Chat, error) {
	if ownerID == "" {
		return nil, ErrOwnerIDRequired
	}
	if mode == "" {
		mode = chat.DefaultMode
	}

	c := &chat.Chat{
		OwnerID:  ownerID,
		Title:    chat.DefaultTitle,
		Mode:     mode,
		Messages: []chat.Message{},
	}
	if err := s.chats.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SendMessageInput is one turn request against an existing chat
type SendMessageInput struct {
	ChatID  string
	OwnerID string
	Content string
	Mode    chat.Mode
	PageURL string
}

// SendMessageResult is the pipeline outcome for one turn
type SendMessageResult struct {
	Reply    string
	Messages []chat.Message
	ChatID   string
	Title    string
	// Blocked marks a moderation refusal: the reply was produced locally,
	// the gateway was not called and nothing was persisted.
	Blocked bool
}

// SendMessage runs the full pipeline for one user turn.
// Gateway failure is absorbed into a fallback reply and still reported as
// success; a failed persistence write is fatal.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageResult, error) {
	if in.OwnerID == "" {
		return nil, ErrOwnerIDRequired
	}
	if in.ChatID == "" {
		return nil, ErrChatIDRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyMessage
	}

	c, err := s.GetChat(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if len([]rune(in.Content)) > cfg.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	if !moderation.IsAllowed(in.Content, cfg.Blacklist) {
		log.Info().Str("chat_id", in.ChatID).Msg("message blocked by moderation wordlist")
		return &SendMessageResult{
			Reply:    settings.RefusalReply,
			Messages: c.Messages,
			ChatID:   in.ChatID,
			Title:    c.Title,
			Blocked:  true,
		}, nil
	}

	reply, userMsg, assistantMsg := s.converse(ctx, cfg, c, in.Content, in.Mode, in.PageURL)

	title := c.Title
	firstUserMessage := c.UserMessageCount() == 0
	if firstUserMessage {
		title = chat.DeriveTitle(in.Content)
	}

	if err := s.chats.AppendMessages(ctx, in.ChatID, userMsg, assistantMsg); err != nil {
		log.Error().Err(err).Str("chat_id", in.ChatID).Msg("failed to persist chat turn")
		return nil, err
	}
	if firstUserMessage {
		if err := s.chats.Update(ctx, in.ChatID, bson.M{"$set": bson.M{"title": title}}); err != nil {
			log.Error().Err(err).Str("chat_id", in.ChatID).Msg("failed to persist chat title")
			return nil, err
		}
	}

	return &SendMessageResult{
		Reply:    reply,
		Messages: append(c.Messages, userMsg, assistantMsg),
		ChatID:   in.ChatID,
		Title:    title,
	}, nil
}

// converse assembles the prompt and calls the completion gateway, building
// both turn messages. Gateway failure degrades to the fallback apology.
func (s *ChatService) converse(ctx context.Context, cfg *settings.Settings, c *chat.Chat, content string, mode chat.Mode, pageURL string) (string, chat.Message, chat.Message) {
	userMsg := chat.Message{
		Role:      chat.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}

	if mode == "" {
		mode = c.Mode
	}
	if mode == "" {
		mode = chat.DefaultMode
	}

	history := append(append([]chat.Message{}, c.Messages...), userMsg)
	messages := prompt.Assemble(cfg, mode, history, pageURL)

	reply, err := s.ai.Complete(ctx, ai.ParamsFromSettings(cfg), messages)
	if err != nil {
		log.Warn().Err(err).Str("model", cfg.Model).Msg("completion failed, using fallback reply")
		reply = settings.FallbackReply
	} else if reply == "" {
		reply = settings.EmptyReply
	}

	assistantMsg := chat.Message{
		Role:      chat.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	return reply, userMsg, assistantMsg
}

// UpdateChatMeta patches title/favorite/archive/mode; nil fields keep their
// prior values.
func (s *ChatService) UpdateChatMeta(ctx context.Context, chatID string, title *string, isFavorite, isArchived *bool, mode *chat.Mode) (*chat.Chat, error) {
	c, err := s.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if title != nil {
		set["title"] = *title
		c.Title = *title
	}
	if isFavorite != nil {
		set["is_favorite"] = *isFavorite
		c.IsFavorite = *isFavorite
	}
	if isArchived != nil {
		set["is_archived"] = *isArchived
		c.IsArchived = *isArchived
	}
	if mode != nil {
		set["mode"] = *mode
		c.Mode = *mode
	}
	if len(set) == 0 {
		return c, nil
	}

	if err := s.chats.Update(ctx, chatID, bson.M{"$set": set}); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteChat removes one conversation
func (s *ChatService) DeleteChat(ctx context.Context, chatID string) error {
	if chatID == "" {
		return ErrChatIDRequired
	}
	if err := s.chats.Delete(ctx, chatID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrChatNotFound
		}
		return err
	}
	return nil
}

// DeleteAllChats removes every conversation of the owner. Irreversible.
func (s *ChatService) DeleteAllChats(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, ErrOwnerIDRequired
	}
	return s.chats.DeleteByOwner(ctx, ownerID)
}

// Migrate reassigns every chat from one owner token to another and reports
// the count. Migrating an owner with nothing left is a valid no-op, which
// makes the operation safe to retry.
func (s *ChatService) Migrate(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	if oldOwnerID == "" || newOwnerID == "" {
		return 0, ErrOwnerIDRequired
	}

	count, err := s.chats.MigrateOwner(ctx, oldOwnerID, newOwnerID)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("old_owner", oldOwnerID).
		Str("new_owner", newOwnerID).
		Int64("migrated", count).
		Msg("chats migrated")
	return count, nil
}

// ProxyMessageInput is the single-shot storefront widget turn
type ProxyMessageInput struct {
	OwnerID string
	Content string
	ChatID  string
	Mode    chat.Mode
	PageURL string
}

// ProxyMessage serves the legacy single-shot endpoint: without a chat id it
// continues the owner's existing conversation or starts one. Runs the same
// pipeline as SendMessage.
func (s *ChatService) ProxyMessage(ctx context.Context, in ProxyMessageInput) (*SendMessageResult, error) {
	if in.OwnerID == "" {
		return nil, ErrOwnerIDRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyMessage
	}

	chatID := in.ChatID
	if chatID == "" {
		c, err := s.chats.FindByOwner(ctx, in.OwnerID)
		switch {
		case err == nil:
			chatID = c.ID.Hex()
		case errors.Is(err, mongo.ErrNoDocuments):
			c, err = s.NewChat(ctx, in.OwnerID, in.Mode)
			if err != nil {
				return nil, err
			}
			chatID = c.ID.Hex()
		default:
			return nil, err
		}
	}

	return s.SendMessage(ctx, SendMessageInput{
		ChatID:  chatID,
		OwnerID: in.OwnerID,
		Content: in.Content,
		Mode:    in.Mode,
		PageURL: in.PageURL,
	})
}
