package tui_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/tui"
)

var _ = Describe("InputField", func() {
	It("should insert runes at the cursor", func() {
		field := tui.NewInputField().InsertRune('h').InsertRune('i')

		Expect(field.Content).To(Equal("hi"))
		Expect(field.Cursor).To(Equal(2))
	})

	It("should edit multibyte content by rune", func() {
		field := tui.NewInputField()
		for _, r := range "héllo 世界" {
			field = field.InsertRune(r)
		}

		Expect(field.Content).To(Equal("héllo 世界"))
		Expect(field.Cursor).To(Equal(8))

		field = field.CursorLeft().DeleteBackward()
		Expect(field.Content).To(Equal("héllo 界"))

		field = field.CursorHome().InsertRune('>')
		Expect(field.Content).To(Equal(">héllo 界"))
	})

	It("should insert in the middle", func() {
		field := tui.NewInputField()
		for _, r := range "ac" {
			field = field.InsertRune(r)
		}
		field = field.WithCursor(1).InsertRune('b')

		Expect(field.Content).To(Equal("abc"))
		Expect(field.Cursor).To(Equal(2))
	})

	It("should delete backward and forward", func() {
		field := tui.NewInputField()
		for _, r := range "abc" {
			field = field.InsertRune(r)
		}

		Expect(field.DeleteBackward().Content).To(Equal("ab"))
		Expect(field.CursorHome().DeleteForward().Content).To(Equal("bc"))
		Expect(field.CursorHome().DeleteBackward().Content).To(Equal("abc"))
		Expect(field.CursorEnd().DeleteForward().Content).To(Equal("abc"))
	})

	It("should clamp the cursor to the content", func() {
		field := tui.NewInputField().WithContent("abc")

		Expect(field.WithCursor(-3).Cursor).To(Equal(0))
		Expect(field.WithCursor(99).Cursor).To(Equal(3))
	})

	It("should clear content and cursor", func() {
		field := tui.NewInputField().WithContent("abc").WithCursor(2).Clear()

		Expect(field.Content).To(Equal(""))
		Expect(field.Cursor).To(Equal(0))
	})

	Describe("VisibleSpan", func() {
		It("should show everything when it fits", func() {
			field := tui.NewInputField().WithContent("short").CursorEnd()

			visible, col := field.VisibleSpan(20)

			Expect(visible).To(Equal("short"))
			Expect(col).To(Equal(5))
		})

		It("should scroll so the cursor stays in view", func() {
			field := tui.NewInputField().WithContent("0123456789").CursorEnd()

			visible, col := field.VisibleSpan(5)

			Expect(visible).To(Equal("6789"))
			Expect(col).To(Equal(4))
		})

		It("should anchor to the start when the cursor is there", func() {
			field := tui.NewInputField().WithContent("0123456789").CursorHome()

			visible, col := field.VisibleSpan(5)

			Expect(visible).To(Equal("01234"))
			Expect(col).To(Equal(0))
		})
	})
})
