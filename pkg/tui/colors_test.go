package tui_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/tui"
)

var _ = Describe("ApplyTheme", func() {
	It("should leave the palette alone for the dark default", func() {
		before := tui.StyleUserText

		tui.ApplyTheme("dark")
		tui.ApplyTheme("")

		Expect(tui.StyleUserText).To(Equal(before))
	})

	It("should swap text colors for the light theme", func() {
		before := tui.StyleUserText

		tui.ApplyTheme("light")

		Expect(tui.StyleUserText).ToNot(Equal(before))
	})
})
