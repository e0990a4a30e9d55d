package tui_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/tui"
)

var _ = Describe("TypingIndicator", func() {
	It("should start hidden", func() {
		indicator := tui.NewTypingIndicator("dots")

		Expect(indicator.Visible).To(BeFalse())
		Expect(indicator.Text()).To(Equal(""))
	})

	It("should default unknown modes to dots", func() {
		indicator := tui.NewTypingIndicator("bounce").WithVisible(true)

		Expect(indicator.Mode).To(Equal("dots"))
		Expect(indicator.Text()).To(Equal("·"))
	})

	It("should cycle dot frames", func() {
		indicator := tui.NewTypingIndicator("dots").WithVisible(true)

		Expect(indicator.Text()).To(Equal("·"))
		indicator = indicator.Advance()
		Expect(indicator.Text()).To(Equal("··"))
		indicator = indicator.Advance()
		Expect(indicator.Text()).To(Equal("···"))
		indicator = indicator.Advance()
		Expect(indicator.Text()).To(Equal("·"))
	})

	It("should cycle spinner frames", func() {
		indicator := tui.NewTypingIndicator("spinner").WithVisible(true)

		Expect(indicator.Text()).To(Equal("░"))
		Expect(indicator.Advance().Text()).To(Equal("▒"))
	})

	It("should not advance while hidden", func() {
		indicator := tui.NewTypingIndicator("dots").Advance().Advance()

		Expect(indicator.Frame).To(Equal(0))
	})

	It("should restart the animation when it reappears", func() {
		indicator := tui.NewTypingIndicator("dots").WithVisible(true).Advance().Advance()
		Expect(indicator.Frame).To(Equal(2))

		indicator = indicator.WithVisible(false).WithVisible(true)

		Expect(indicator.Frame).To(Equal(0))
	})
})
