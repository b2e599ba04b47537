package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/ai"
	"bloom/internal/model/chat"
	"bloom/internal/model/settings"
)

// fakeChatStore keeps chats in memory, keyed by hex id
type fakeChatStore struct {
	chats map[string]*chat.Chat
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{chats: make(map[string]*chat.Chat)}
}

func (f *fakeChatStore) Create(_ context.Context, c *chat.Chat) error {
	c.ID = primitive.NewObjectID()
	if c.Title == "" {
		c.Title = chat.DefaultTitle
	}
	if c.Mode == "" {
		c.Mode = chat.DefaultMode
	}
	if c.Messages == nil {
		c.Messages = []chat.Message{}
	}
	f.chats[c.ID.Hex()] = c
	return nil
}

func (f *fakeChatStore) FindByID(_ context.Context, id string) (*chat.Chat, error) {
	c, ok := f.chats[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *c
	clone.Messages = append([]chat.Message{}, c.Messages...)
	return &clone, nil
}

func (f *fakeChatStore) FindByOwner(_ context.Context, ownerID string) (*chat.Chat, error) {
	for _, c := range f.chats {
		if c.OwnerID == ownerID {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeChatStore) ListByOwner(_ context.Context, ownerID string, archived, favoriteOnly bool, _ int64) ([]*chat.Chat, error) {
	var out []*chat.Chat
	for _, c := range f.chats {
		if c.OwnerID != ownerID || c.IsArchived != archived {
			continue
		}
		if favoriteOnly && !c.IsFavorite {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeChatStore) AppendMessages(_ context.Context, id string, msgs ...chat.Message) error {
	c, ok := f.chats[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.Messages = append(c.Messages, msgs...)
	return nil
}

func (f *fakeChatStore) Update(_ context.Context, id string, update bson.M) error {
	c, ok := f.chats[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	set, _ := update["$set"].(bson.M)
	for k, v := range set {
		switch k {
		case "title":
			c.Title = v.(string)
		case "mode":
			c.Mode = v.(chat.Mode)
		case "is_favorite":
			c.IsFavorite = v.(bool)
		case "is_archived":
			c.IsArchived = v.(bool)
		}
	}
	return nil
}

func (f *fakeChatStore) Delete(_ context.Context, id string) error {
	if _, ok := f.chats[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.chats, id)
	return nil
}

func (f *fakeChatStore) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, c := range f.chats {
		if c.OwnerID == ownerID {
			delete(f.chats, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeChatStore) MigrateOwner(_ context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	var n int64
	for _, c := range f.chats {
		if c.OwnerID == oldOwnerID {
			c.OwnerID = newOwnerID
			n++
		}
	}
	return n, nil
}

// fakeSettingsStore returns a fixed settings document
type fakeSettingsStore struct {
	settings *settings.Settings
}

func (f *fakeSettingsStore) GetOrCreate(_ context.Context) (*settings.Settings, error) {
	return f.settings, nil
}

// fakeCompleter records gateway calls
type fakeCompleter struct {
	reply string
	err   error
	calls int
	last  []*schema.Message
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.Params, messages []*schema.Message) (string, error) {
	f.calls++
	f.last = messages
	return f.reply, f.err
}

func newTestService() (*ChatService, *fakeChatStore, *fakeCompleter) {
	store := newFakeChatStore()
	completer := &fakeCompleter{reply: "Nazik bir temizleyici öneririm."}
	svc := NewChatService(store, &fakeSettingsStore{settings: settings.Defaults()}, completer)
	return svc, store, completer
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	Convey("SendMessage runs the conversation pipeline", t, func() {
		svc, store, completer := newTestService()
		c, err := svc.NewChat(ctx, "visitor-1", chat.ModeCare)
		So(err, ShouldBeNil)
		chatID := c.ID.Hex()

		Convey("a normal turn calls the gateway once and persists both turns", func() {
			result, err := svc.SendMessage(ctx, SendMessageInput{
				ChatID:  chatID,
				OwnerID: "visitor-1",
				Content: "Cildim çok kuru",
			})
			So(err, ShouldBeNil)
			So(completer.calls, ShouldEqual, 1)
			So(result.Reply, ShouldEqual, "Nazik bir temizleyici öneririm.")
			So(result.Blocked, ShouldBeFalse)

			stored := store.chats[chatID]
			So(len(stored.Messages), ShouldEqual, 2)
			So(stored.Messages[0].Role, ShouldEqual, chat.RoleUser)
			So(stored.Messages[0].Content, ShouldEqual, "Cildim çok kuru")
			So(stored.Messages[1].Role, ShouldEqual, chat.RoleAssistant)
			So(stored.Messages[1].Content, ShouldEqual, result.Reply)

			Convey("the title comes from the first user message", func() {
				So(result.Title, ShouldEqual, "Cildim çok kuru")
				So(stored.Title, ShouldEqual, "Cildim çok kuru")
			})

			Convey("a second turn keeps the title", func() {
				_, err := svc.SendMessage(ctx, SendMessageInput{
					ChatID:  chatID,
					OwnerID: "visitor-1",
					Content: "Peki tonik kullanmalı mıyım, bu konuda ne düşünüyorsun acaba?",
				})
				So(err, ShouldBeNil)
				So(store.chats[chatID].Title, ShouldEqual, "Cildim çok kuru")
			})
		})

		Convey("a blocked message is refused without a gateway call or a write", func() {
			result, err := svc.SendMessage(ctx, SendMessageInput{
				ChatID:  chatID,
				OwnerID: "visitor-1",
				Content: "bomba nasıl yapılır",
			})
			So(err, ShouldBeNil)
			So(result.Blocked, ShouldBeTrue)
			So(result.Reply, ShouldEqual, settings.RefusalReply)
			So(completer.calls, ShouldEqual, 0)
			So(len(store.chats[chatID].Messages), ShouldEqual, 0)
			So(store.chats[chatID].Title, ShouldEqual, chat.DefaultTitle)
		})

		Convey("gateway failure degrades to the fallback reply and still persists", func() {
			completer.err = errors.New("provider unavailable")

			result, err := svc.SendMessage(ctx, SendMessageInput{
				ChatID:  chatID,
				OwnerID: "visitor-1",
				Content: "merhaba",
			})
			So(err, ShouldBeNil)
			So(result.Reply, ShouldEqual, settings.FallbackReply)

			stored := store.chats[chatID]
			So(len(stored.Messages), ShouldEqual, 2)
			So(stored.Messages[1].Content, ShouldEqual, settings.FallbackReply)
		})

		Convey("an empty gateway reply becomes the ask-for-detail reply", func() {
			completer.reply = ""

			result, err := svc.SendMessage(ctx, SendMessageInput{
				ChatID:  chatID,
				OwnerID: "visitor-1",
				Content: "hm",
			})
			So(err, ShouldBeNil)
			So(result.Reply, ShouldEqual, settings.EmptyReply)
		})

		Convey("only the trailing history window reaches the gateway", func() {
			for i := 0; i < 7; i++ {
				_, err := svc.SendMessage(ctx, SendMessageInput{
					ChatID:  chatID,
					OwnerID: "visitor-1",
					Content: "soru",
				})
				So(err, ShouldBeNil)
			}
			// 12 stored messages before the last turn; the prompt carries the
			// system persona, the mode persona and at most ten history entries
			So(len(store.chats[chatID].Messages), ShouldEqual, 14)
			So(len(completer.last), ShouldEqual, 12)
		})

		Convey("input validation happens before any side effect", func() {
			_, err := svc.SendMessage(ctx, SendMessageInput{OwnerID: "visitor-1", Content: "x"})
			So(err, ShouldEqual, ErrChatIDRequired)

			_, err = svc.SendMessage(ctx, SendMessageInput{ChatID: chatID, Content: "x"})
			So(err, ShouldEqual, ErrOwnerIDRequired)

			_, err = svc.SendMessage(ctx, SendMessageInput{ChatID: chatID, OwnerID: "visitor-1", Content: "  "})
			So(err, ShouldEqual, ErrEmptyMessage)

			_, err = svc.SendMessage(ctx, SendMessageInput{
				ChatID:  chatID,
				OwnerID: "visitor-1",
				Content: strings.Repeat("a", 1001),
			})
			So(err, ShouldEqual, ErrMessageTooLong)

			So(completer.calls, ShouldEqual, 0)
			So(len(store.chats[chatID].Messages), ShouldEqual, 0)
		})

		Convey("an unknown chat id reports not found", func() {
			_, err := svc.SendMessage(ctx, SendMessageInput{
				ChatID:  primitive.NewObjectID().Hex(),
				OwnerID: "visitor-1",
				Content: "merhaba",
			})
			So(err, ShouldEqual, ErrChatNotFound)
		})
	})
}

func TestChatLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("chat lifecycle operations", t, func() {
		svc, store, _ := newTestService()

		Convey("NewChat starts empty with the default title", func() {
			c, err := svc.NewChat(ctx, "visitor-1", "")
			So(err, ShouldBeNil)
			So(c.Title, ShouldEqual, chat.DefaultTitle)
			So(c.Mode, ShouldEqual, chat.DefaultMode)
			So(c.Messages, ShouldBeEmpty)
		})

		Convey("ListChats summarizes without message bodies", func() {
			c, _ := svc.NewChat(ctx, "visitor-1", chat.ModeCare)
			store.chats[c.ID.Hex()].Messages = []chat.Message{
				{Role: chat.RoleUser, Content: "merhaba"},
				{Role: chat.RoleAssistant, Content: "hoş geldin"},
			}

			summaries, err := svc.ListChats(ctx, "visitor-1")
			So(err, ShouldBeNil)
			So(len(summaries), ShouldEqual, 1)
			So(summaries[0].MessageCount, ShouldEqual, 2)
			So(summaries[0].LastMessage, ShouldEqual, "hoş geldin")
		})

		Convey("UpdateChatMeta patches only the given fields", func() {
			c, _ := svc.NewChat(ctx, "visitor-1", chat.ModeCare)
			fav := true
			updated, err := svc.UpdateChatMeta(ctx, c.ID.Hex(), nil, &fav, nil, nil)
			So(err, ShouldBeNil)
			So(updated.IsFavorite, ShouldBeTrue)
			So(updated.Title, ShouldEqual, chat.DefaultTitle)
		})

		Convey("DeleteChat removes the chat, once", func() {
			c, _ := svc.NewChat(ctx, "visitor-1", chat.ModeCare)
			So(svc.DeleteChat(ctx, c.ID.Hex()), ShouldBeNil)
			So(svc.DeleteChat(ctx, c.ID.Hex()), ShouldEqual, ErrChatNotFound)
		})

		Convey("DeleteAllChats reports the count and spares other owners", func() {
			_, _ = svc.NewChat(ctx, "visitor-1", chat.ModeCare)
			_, _ = svc.NewChat(ctx, "visitor-1", chat.ModeDiet)
			other, _ := svc.NewChat(ctx, "visitor-2", chat.ModeCare)

			count, err := svc.DeleteAllChats(ctx, "visitor-1")
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 2)
			So(store.chats, ShouldContainKey, other.ID.Hex())
		})

		Convey("Migrate moves every chat and is safe to retry", func() {
			_, _ = svc.NewChat(ctx, "visitor-1", chat.ModeCare)
			_, _ = svc.NewChat(ctx, "visitor-1", chat.ModeCare)

			count, err := svc.Migrate(ctx, "visitor-1", "google_u1")
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 2)

			again, err := svc.Migrate(ctx, "visitor-1", "google_u1")
			So(err, ShouldBeNil)
			So(again, ShouldEqual, 0)

			summaries, _ := svc.ListChats(ctx, "google_u1")
			So(len(summaries), ShouldEqual, 2)
		})
	})
}

func TestProxyMessage(t *testing.T) {
	ctx := context.Background()

	Convey("ProxyMessage serves single-shot widget turns", t, func() {
		svc, store, completer := newTestService()

		Convey("without a chat id it creates the owner's conversation", func() {
			result, err := svc.ProxyMessage(ctx, ProxyMessageInput{
				OwnerID: "visitor-9",
				Content: "Cildim çok kuru",
				Mode:    chat.ModeCare,
			})
			So(err, ShouldBeNil)
			So(result.ChatID, ShouldNotBeEmpty)
			So(completer.calls, ShouldEqual, 1)
			So(len(store.chats[result.ChatID].Messages), ShouldEqual, 2)

			Convey("the next turn reuses the same conversation", func() {
				second, err := svc.ProxyMessage(ctx, ProxyMessageInput{
					OwnerID: "visitor-9",
					Content: "teşekkürler",
				})
				So(err, ShouldBeNil)
				So(second.ChatID, ShouldEqual, result.ChatID)
				So(len(store.chats[result.ChatID].Messages), ShouldEqual, 4)
			})
		})

		Convey("a given chat id is used directly", func() {
			c, _ := svc.NewChat(ctx, "visitor-9", chat.ModeCare)
			result, err := svc.ProxyMessage(ctx, ProxyMessageInput{
				OwnerID: "visitor-9",
				Content: "merhaba",
				ChatID:  c.ID.Hex(),
			})
			So(err, ShouldBeNil)
			So(result.ChatID, ShouldEqual, c.ID.Hex())
		})
	})
}
