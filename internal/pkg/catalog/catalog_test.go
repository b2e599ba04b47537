package catalog

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFindRelevant(t *testing.T) {
	Convey("FindRelevant matches products against the user text", t, func() {
		Convey("an unrelated message matches nothing", func() {
			So(FindRelevant("bugün hava çok güzel"), ShouldBeEmpty)
		})

		Convey("an empty message matches nothing", func() {
			So(FindRelevant(""), ShouldBeEmpty)
		})

		Convey("a full tag match finds the product", func() {
			products := FindRelevant("kuru cilt için ne önerirsin?")
			So(products, ShouldNotBeEmpty)
			So(products[0].ID, ShouldEqual, "cream-cleanser")
		})

		Convey("at most three products are returned", func() {
			// hits tags across most of the catalog
			products := FindRelevant("gözenek leke kızarıklık ton eşitsizliği maske set nem")
			So(len(products), ShouldBeLessThanOrEqualTo, 3)
			So(len(products), ShouldEqual, 3)
		})

		Convey("higher scores come first", func() {
			// step2 matches "leke", "kızarıklık", "ton eşitleme" words while
			// others match less
			products := FindRelevant("leke ve kızarıklık var, ton eşitleme istiyorum")
			So(products, ShouldNotBeEmpty)
			So(products[0].ID, ShouldEqual, "step2-serum")
		})

		Convey("ties keep catalog order", func() {
			// "ışıltı" is a tag on both step1 and step3; equal single-tag
			// scores must keep step1 first
			products := FindRelevant("ışıltı")
			So(len(products), ShouldEqual, 2)
			So(products[0].ID, ShouldEqual, "step1-serum")
			So(products[1].ID, ShouldEqual, "step3-serum")
		})

		Convey("matching is case-insensitive", func() {
			products := FindRelevant("TONİK arıyorum")
			So(products, ShouldNotBeEmpty)
			So(products[0].ID, ShouldEqual, "soothing-toner")
		})

		Convey("short tag words alone do not match", func() {
			// "3 adım" only has words of three or fewer characters besides
			// the full-tag form
			So(FindRelevant("adı"), ShouldBeEmpty)
		})
	})
}
