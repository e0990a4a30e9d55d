package tui_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/chat"
	"parley/pkg/controllers"
	"parley/pkg/tui"
)

var _ = Describe("MessageDisplay", func() {
	at := time.Date(2026, 8, 22, 10, 30, 0, 0, time.UTC)

	userView := controllers.MessageView{
		ID:        "u1",
		Role:      chat.RoleUser,
		Main:      "hi",
		Timestamp: at,
	}

	assistantView := controllers.MessageView{
		ID:   "m1",
		Role: chat.RoleAssistant,
		Sections: []controllers.ThinkingSection{{
			SpanID:   "m1-thinking-0",
			Content:  "pondering",
			Complete: true,
			Expanded: false,
		}},
		Main:      "the answer",
		Timestamp: at.Add(time.Minute),
	}

	newDisplay := func(views ...controllers.MessageView) tui.MessageDisplay {
		return tui.NewMessageDisplay(80).WithViews(views)
	}

	It("should render a user message inline with its prefix", func() {
		lines := newDisplay(userView).Lines()

		Expect(lines).To(HaveLen(1))
		Expect(lines[0].Text()).To(Equal("[10:30] You: hi"))
	})

	It("should wrap long content with a hanging indent", func() {
		view := userView
		view.Main = strings.Repeat("word ", 30)

		lines := newDisplay(view).Lines()

		Expect(len(lines)).To(BeNumerically(">", 1))
		Expect(lines[0].Text()).To(HavePrefix("[10:30] You: word"))
		Expect(lines[1].Text()).To(HavePrefix(strings.Repeat(" ", len("[10:30] You: "))))
	})

	It("should separate consecutive messages with a blank line", func() {
		lines := newDisplay(userView, assistantView).Lines()

		Expect(lines[1].Text()).To(Equal(""))
	})

	Describe("thinking sections", func() {
		It("should render a collapsed section as a single header", func() {
			lines := newDisplay(assistantView).Lines()

			Expect(lines[0].Text()).To(Equal("[10:31] Assistant:"))
			Expect(lines[1].Text()).To(Equal("  ▸ thinking"))
			Expect(lines[1].SectionID).To(Equal("m1-thinking-0"))
			Expect(lines[2].Text()).To(Equal(strings.Repeat(" ", 19) + "the answer"))
		})

		It("should render expanded content under the header", func() {
			view := assistantView
			view.Sections = []controllers.ThinkingSection{{
				SpanID:   "m1-thinking-0",
				Content:  "pondering",
				Complete: true,
				Expanded: true,
			}}

			lines := newDisplay(view).Lines()

			Expect(lines[1].Text()).To(Equal("  ▾ thinking"))
			Expect(lines[2].Text()).To(Equal("    pondering"))
			Expect(lines[2].SectionID).To(Equal(""))
		})

		It("should mark a still-streaming section", func() {
			view := assistantView
			view.Sections = []controllers.ThinkingSection{{
				SpanID:   "m1-thinking-0",
				Content:  "pond",
				Complete: false,
				Expanded: true,
			}}

			lines := newDisplay(view).Lines()

			Expect(lines[1].Text()).To(Equal("  ▾ thinking…"))
		})

		It("should highlight the targeted section header", func() {
			lines := newDisplay(assistantView).WithTarget("m1-thinking-0").Lines()

			Expect(lines[1].Spans[0].Style).To(Equal(tui.StyleThinkingTarget))
		})

		It("should hide sections when thinking display is off", func() {
			display := newDisplay(assistantView).WithShowThinking(false)

			lines := display.Lines()

			Expect(lines).To(HaveLen(1))
			Expect(lines[0].Text()).To(Equal("[10:31] Assistant: the answer"))
			Expect(display.SectionIDs()).To(BeEmpty())
		})
	})

	It("should list section ids in transcript order", func() {
		second := assistantView
		second.ID = "m2"
		second.Sections = []controllers.ThinkingSection{
			{SpanID: "m2-thinking-0"},
			{SpanID: "m2-thinking-1"},
		}

		ids := newDisplay(assistantView, second).SectionIDs()

		Expect(ids).To(Equal([]string{"m1-thinking-0", "m2-thinking-0", "m2-thinking-1"}))
	})

	It("should render fenced code on dedicated lines", func() {
		view := assistantView
		view.Sections = nil
		view.Main = "look:\n```go\nfunc main() {}\n```"

		lines := newDisplay(view).Lines()

		var texts []string
		for _, line := range lines {
			texts = append(texts, line.Text())
		}
		Expect(texts).To(ContainElement("[10:31] Assistant: look:"))
		Expect(texts).To(ContainElement("  func main() {}"))
	})

	It("should render a prefix-only row for an empty view", func() {
		view := controllers.MessageView{
			ID:        "m3",
			Role:      chat.RoleAssistant,
			Main:      "",
			Timestamp: at,
		}

		lines := newDisplay(view).Lines()

		Expect(lines).To(HaveLen(1))
		Expect(lines[0].Text()).To(Equal("[10:30] Assistant:"))
	})
})
