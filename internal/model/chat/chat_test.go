package chat

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDeriveTitle(t *testing.T) {
	Convey("DeriveTitle builds the title from the first user message", t, func() {
		Convey("short messages become the title unchanged", func() {
			So(DeriveTitle("Cildim çok kuru"), ShouldEqual, "Cildim çok kuru")
		})

		Convey("long messages are cut at forty characters with an ellipsis", func() {
			long := strings.Repeat("a", 60)
			title := DeriveTitle(long)
			So(title, ShouldEqual, strings.Repeat("a", 40)+"...")
		})

		Convey("a message of exactly forty characters gets no ellipsis", func() {
			exact := strings.Repeat("b", 40)
			So(DeriveTitle(exact), ShouldEqual, exact)
		})

		Convey("truncation counts runes, not bytes", func() {
			turkish := strings.Repeat("ş", 45)
			title := DeriveTitle(turkish)
			So(title, ShouldEqual, strings.Repeat("ş", 40)+"...")
		})

		Convey("deriving from an already derived title is stable", func() {
			long := strings.Repeat("c", 60)
			once := DeriveTitle(long)
			So(DeriveTitle(once), ShouldEqual, once)
		})
	})
}

func TestChatSummarize(t *testing.T) {
	Convey("Summarize projects a chat onto list metadata", t, func() {
		c := &Chat{
			Title: "Yeni Sohbet",
			Mode:  ModeCare,
			Messages: []Message{
				{Role: RoleUser, Content: "merhaba"},
				{Role: RoleAssistant, Content: strings.Repeat("x", 100)},
			},
		}

		s := c.Summarize(60)
		So(s.MessageCount, ShouldEqual, 2)
		So(s.LastMessage, ShouldEqual, strings.Repeat("x", 60)+"...")
		So(s.Title, ShouldEqual, "Yeni Sohbet")

		Convey("an empty chat has no preview", func() {
			empty := &Chat{Title: DefaultTitle}
			So(empty.Summarize(60).LastMessage, ShouldBeEmpty)
			So(empty.Summarize(60).MessageCount, ShouldEqual, 0)
		})
	})
}

func TestUserMessageCount(t *testing.T) {
	Convey("UserMessageCount counts only user turns", t, func() {
		c := &Chat{Messages: []Message{
			{Role: RoleUser, Content: "a"},
			{Role: RoleAssistant, Content: "b"},
			{Role: RoleUser, Content: "c"},
		}}
		So(c.UserMessageCount(), ShouldEqual, 2)
		So((&Chat{}).UserMessageCount(), ShouldEqual, 0)
	})
}
