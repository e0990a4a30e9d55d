package tui_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/chat"
	"parley/pkg/tui"
)

var _ = Describe("TranscriptFormatter", func() {
	formatter := tui.NewTranscriptFormatter(80)

	It("should render the role header and body", func() {
		msg := chat.NewUserMessage("hello there")

		out := formatter.FormatMessage(msg)

		Expect(out).To(ContainSubstring("You"))
		Expect(out).To(ContainSubstring("hello there"))
	})

	It("should box thinking spans apart from the reply", func() {
		msg := chat.NewAssistantMessage("m1", "<think>weighing options</think>go with blue")

		out := formatter.FormatMessage(msg)

		Expect(out).To(ContainSubstring("weighing options"))
		Expect(out).To(ContainSubstring("go with blue"))
		Expect(out).To(ContainSubstring("╭"))
		Expect(out).ToNot(ContainSubstring("<think>"))
	})

	It("should syntax highlight fenced code", func() {
		msg := chat.NewAssistantMessage("m2", "run this:\n```go\nfunc main() {}\n```")

		out := formatter.FormatMessage(msg)

		Expect(out).To(ContainSubstring("run this:"))
		Expect(out).To(ContainSubstring("func"))
		Expect(out).To(ContainSubstring("\x1b["))
	})

	It("should join a whole conversation", func() {
		messages := []chat.Message{
			chat.NewUserMessage("first"),
			chat.NewAssistantMessage("m3", "second"),
		}

		out := formatter.FormatHistory(messages)

		first := strings.Index(out, "first")
		second := strings.Index(out, "second")
		Expect(first).To(BeNumerically(">=", 0))
		Expect(second).To(BeNumerically(">", first))
	})

	It("should render stop notices with the error style", func() {
		msg := chat.NewErrorMessage(chat.ConnectionErrorText)

		out := formatter.FormatMessage(msg)

		Expect(out).To(ContainSubstring("Error"))
		Expect(out).To(ContainSubstring(chat.ConnectionErrorText))
	})

	It("should handle a timestamp", func() {
		msg := chat.Message{
			ID:        "t1",
			Role:      chat.RoleUser,
			Content:   "timed",
			Timestamp: time.Date(2026, 8, 22, 9, 15, 30, 0, time.UTC),
		}

		out := formatter.FormatMessage(msg)

		Expect(out).To(ContainSubstring("09:15:30"))
	})
})
