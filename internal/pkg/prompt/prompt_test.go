package prompt

import (
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"

	"bloom/internal/model/chat"
	"bloom/internal/model/settings"
)

func testSettings() *settings.Settings {
	return &settings.Settings{
		SystemPrompt:     "Sen bir bakım asistanısın.",
		CarePrompt:       "Bakım modu.",
		MotivationPrompt: "Motivasyon modu.",
		DietPrompt:       "Beslenme modu.",
	}
}

func turns(n int) []chat.Message {
	history := make([]chat.Message, 0, n)
	for i := 0; i < n; i++ {
		role := chat.RoleUser
		if i%2 == 1 {
			role = chat.RoleAssistant
		}
		history = append(history, chat.Message{Role: role, Content: fmt.Sprintf("mesaj %d", i)})
	}
	return history
}

func TestAssemble(t *testing.T) {
	Convey("Assemble orders the completion input", t, func() {
		s := testSettings()

		Convey("system prompt, mode prompt, then history", func() {
			history := []chat.Message{
				{Role: chat.RoleUser, Content: "merhaba"},
				{Role: chat.RoleAssistant, Content: "hoş geldin"},
			}

			msgs := Assemble(s, chat.ModeCare, history, "")
			So(len(msgs), ShouldEqual, 4)
			So(msgs[0].Role, ShouldEqual, schema.System)
			So(msgs[0].Content, ShouldEqual, "Sen bir bakım asistanısın.")
			So(msgs[1].Role, ShouldEqual, schema.System)
			So(msgs[1].Content, ShouldEqual, "Bakım modu.")
			So(msgs[2].Role, ShouldEqual, schema.User)
			So(msgs[2].Content, ShouldEqual, "merhaba")
			So(msgs[3].Role, ShouldEqual, schema.Assistant)
			So(msgs[3].Content, ShouldEqual, "hoş geldin")
		})

		Convey("a page URL adds a system context line before history", func() {
			msgs := Assemble(s, chat.ModeCare, turns(1), "https://shop.example/products/serum")
			So(len(msgs), ShouldEqual, 4)
			So(msgs[2].Role, ShouldEqual, schema.System)
			So(msgs[2].Content, ShouldEqual, "Kullanıcı şu sayfada: https://shop.example/products/serum.")
		})

		Convey("only the last ten history messages are sent", func() {
			msgs := Assemble(s, chat.ModeCare, turns(25), "")
			So(len(msgs), ShouldEqual, 12)
			// history starts after the two system messages
			So(msgs[2].Content, ShouldEqual, "mesaj 15")
			So(msgs[11].Content, ShouldEqual, "mesaj 24")
		})

		Convey("an unknown mode falls back to the generic prompt", func() {
			msgs := Assemble(s, chat.Mode("finans"), turns(1), "")
			So(msgs[1].Content, ShouldEqual, settings.GenericModePrompt)
		})

		Convey("empty prompts and empty messages are omitted", func() {
			s.SystemPrompt = ""
			s.CarePrompt = ""
			history := []chat.Message{
				{Role: chat.RoleUser, Content: "soru"},
				{Role: chat.RoleAssistant, Content: ""},
			}

			msgs := Assemble(s, chat.ModeCare, history, "")
			So(len(msgs), ShouldEqual, 1)
			So(msgs[0].Content, ShouldEqual, "soru")
		})
	})
}
