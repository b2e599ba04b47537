package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/ai"
	"bloom/internal/model/chat"
	"bloom/internal/model/settings"
	"bloom/internal/service"
)

type memChatStore struct {
	chats map[string]*chat.Chat
}

func newMemChatStore() *memChatStore {
	return &memChatStore{chats: make(map[string]*chat.Chat)}
}

func (m *memChatStore) Create(_ context.Context, c *chat.Chat) error {
	c.ID = primitive.NewObjectID()
	m.chats[c.ID.Hex()] = c
	return nil
}

func (m *memChatStore) FindByID(_ context.Context, id string) (*chat.Chat, error) {
	c, ok := m.chats[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return c, nil
}

func (m *memChatStore) FindByOwner(_ context.Context, ownerID string) (*chat.Chat, error) {
	for _, c := range m.chats {
		if c.OwnerID == ownerID {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memChatStore) ListByOwner(_ context.Context, ownerID string, archived, favoriteOnly bool, _ int64) ([]*chat.Chat, error) {
	var out []*chat.Chat
	for _, c := range m.chats {
		if c.OwnerID == ownerID && c.IsArchived == archived && (!favoriteOnly || c.IsFavorite) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memChatStore) AppendMessages(_ context.Context, id string, msgs ...chat.Message) error {
	c, ok := m.chats[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.Messages = append(c.Messages, msgs...)
	return nil
}

func (m *memChatStore) Update(_ context.Context, id string, update bson.M) error {
	c, ok := m.chats[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if set, ok := update["$set"].(bson.M); ok {
		if title, ok := set["title"].(string); ok {
			c.Title = title
		}
	}
	return nil
}

func (m *memChatStore) Delete(_ context.Context, id string) error {
	if _, ok := m.chats[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.chats, id)
	return nil
}

func (m *memChatStore) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, c := range m.chats {
		if c.OwnerID == ownerID {
			delete(m.chats, id)
			n++
		}
	}
	return n, nil
}

func (m *memChatStore) MigrateOwner(_ context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	var n int64
	for _, c := range m.chats {
		if c.OwnerID == oldOwnerID {
			c.OwnerID = newOwnerID
			n++
		}
	}
	return n, nil
}

type memSettings struct{}

func (memSettings) GetOrCreate(_ context.Context) (*settings.Settings, error) {
	return settings.Defaults(), nil
}

type stubCompleter struct {
	reply string
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ ai.Params, _ []*schema.Message) (string, error) {
	s.calls++
	return s.reply, nil
}

func newTestRouter() (*gin.Engine, *memChatStore, *stubCompleter) {
	gin.SetMode(gin.TestMode)

	store := newMemChatStore()
	completer := &stubCompleter{reply: "Elbette, yardımcı olayım."}
	svc := service.NewChatService(store, memSettings{}, completer)
	h := NewChatHandler(svc)

	router := gin.New()
	router.POST("/api/chat", h.HandleAction)
	router.POST("/proxy/api/chat", h.Proxy)
	return router, store, completer
}

func doJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAction(t *testing.T) {
	Convey("the unified chat endpoint", t, func() {
		router, store, completer := newTestRouter()

		Convey("rejects an unknown action", func() {
			w := doJSON(router, "/api/chat", gin.H{"action": "explode", "owner_id": "v1"})
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["code"], ShouldEqual, float64(40002))
		})

		Convey("rejects a body without an action", func() {
			w := doJSON(router, "/api/chat", gin.H{"owner_id": "v1"})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("new then message then list round-trips", func() {
			w := doJSON(router, "/api/chat", gin.H{"action": "new", "owner_id": "v1", "mode": "care"})
			So(w.Code, ShouldEqual, http.StatusOK)

			var created struct {
				ChatID string `json:"chat_id"`
				Title  string `json:"title"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &created), ShouldBeNil)
			So(created.Title, ShouldEqual, chat.DefaultTitle)

			w = doJSON(router, "/api/chat", gin.H{
				"action":   "message",
				"owner_id": "v1",
				"chat_id":  created.ChatID,
				"content":  "Cildim çok kuru",
			})
			So(w.Code, ShouldEqual, http.StatusOK)

			var msg struct {
				Reply string `json:"reply"`
				Title string `json:"title"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &msg), ShouldBeNil)
			So(msg.Reply, ShouldEqual, "Elbette, yardımcı olayım.")
			So(msg.Title, ShouldEqual, "Cildim çok kuru")
			So(completer.calls, ShouldEqual, 1)

			w = doJSON(router, "/api/chat", gin.H{"action": "list", "owner_id": "v1"})
			So(w.Code, ShouldEqual, http.StatusOK)

			var list struct {
				Total int `json:"total"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &list), ShouldBeNil)
			So(list.Total, ShouldEqual, 1)
		})

		Convey("message against an unknown chat is 404", func() {
			w := doJSON(router, "/api/chat", gin.H{
				"action":   "message",
				"owner_id": "v1",
				"chat_id":  primitive.NewObjectID().Hex(),
				"content":  "merhaba",
			})
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(len(store.chats), ShouldEqual, 0)
		})
	})
}

func TestProxyEndpoint(t *testing.T) {
	Convey("the single-shot proxy endpoint", t, func() {
		router, _, completer := newTestRouter()

		Convey("a product question returns catalog suggestions", func() {
			w := doJSON(router, "/proxy/api/chat", gin.H{
				"owner_id": "v2",
				"message":  "kuru cilt için temizleyici arıyorum",
			})
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Reply    string `json:"reply"`
				ChatID   string `json:"chat_id"`
				Products []struct {
					ID string `json:"id"`
				} `json:"products"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.ChatID, ShouldNotBeEmpty)
			So(resp.Products, ShouldNotBeEmpty)
			So(resp.Products[0].ID, ShouldEqual, "cream-cleanser")
		})

		Convey("a blocked message gets the refusal and no products", func() {
			w := doJSON(router, "/proxy/api/chat", gin.H{
				"owner_id": "v2",
				"message":  "bomba yapmak istiyorum",
			})
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Reply    string `json:"reply"`
				Products []any  `json:"products"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Reply, ShouldEqual, settings.RefusalReply)
			So(resp.Products, ShouldBeEmpty)
			So(completer.calls, ShouldEqual, 0)
		})
	})
}
