package moderation

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIsAllowed(t *testing.T) {
	Convey("IsAllowed screens messages against the wordlist", t, func() {
		wordlist := []string{"intihar", "bomba", "zarar ver"}

		Convey("clean messages pass", func() {
			So(IsAllowed("Cildim çok kuru, ne önerirsin?", wordlist), ShouldBeTrue)
			So(IsAllowed("merhaba", wordlist), ShouldBeTrue)
		})

		Convey("a blocked word anywhere in the message blocks it", func() {
			So(IsAllowed("bomba gibi bir gün", wordlist), ShouldBeFalse)
			So(IsAllowed("kendime zarar vermek istiyorum", wordlist), ShouldBeFalse)
		})

		Convey("matching is case-insensitive on both sides", func() {
			So(IsAllowed("BOMBA", wordlist), ShouldBeFalse)
			So(IsAllowed("Bomba yapımı", []string{"BOMBA"}), ShouldBeFalse)
		})

		Convey("substrings inside longer words still match", func() {
			// "bomba" contains "bomb"
			So(IsAllowed("bombardıman", []string{"bomb"}), ShouldBeFalse)
		})

		Convey("an empty message is not allowed", func() {
			So(IsAllowed("", wordlist), ShouldBeFalse)
		})

		Convey("an empty wordlist blocks nothing", func() {
			So(IsAllowed("her şey serbest", nil), ShouldBeTrue)
			So(IsAllowed("her şey serbest", []string{}), ShouldBeTrue)
		})

		Convey("empty wordlist entries are ignored", func() {
			So(IsAllowed("normal mesaj", []string{"", "bomba"}), ShouldBeTrue)
		})
	})
}
