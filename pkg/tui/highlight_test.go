package tui_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/tui"
)

var _ = Describe("SplitCodeFences", func() {
	It("should return one prose segment for content without fences", func() {
		segments := tui.SplitCodeFences("just some text")

		Expect(segments).To(HaveLen(1))
		Expect(segments[0].Code).To(BeFalse())
		Expect(segments[0].Text).To(Equal("just some text"))
	})

	It("should split out a fenced block with its language", func() {
		content := "look:\n```go\nfunc main() {}\n```\ndone"

		segments := tui.SplitCodeFences(content)

		Expect(segments).To(HaveLen(3))
		Expect(segments[0].Text).To(Equal("look:"))
		Expect(segments[1].Code).To(BeTrue())
		Expect(segments[1].Language).To(Equal("go"))
		Expect(segments[1].Text).To(Equal("func main() {}"))
		Expect(segments[2].Text).To(Equal("done"))
	})

	It("should treat an unterminated fence as code to the end", func() {
		content := "say:\n```python\nprint('hi')"

		segments := tui.SplitCodeFences(content)

		Expect(segments).To(HaveLen(2))
		Expect(segments[1].Code).To(BeTrue())
		Expect(segments[1].Language).To(Equal("python"))
		Expect(segments[1].Text).To(Equal("print('hi')"))
	})

	It("should keep an empty code block", func() {
		segments := tui.SplitCodeFences("```\n```")

		Expect(segments).To(HaveLen(1))
		Expect(segments[0].Code).To(BeTrue())
		Expect(segments[0].Text).To(Equal(""))
	})
})

var _ = Describe("HighlightLines", func() {
	joined := func(spans []tui.Span) string {
		var b strings.Builder
		for _, span := range spans {
			b.WriteString(span.Text)
		}
		return b.String()
	}

	It("should preserve the source text line by line", func() {
		code := "func main() {\n\tprintln(42)\n}"

		lines := tui.HighlightLines(code, "go")

		Expect(lines).To(HaveLen(3))
		Expect(joined(lines[0])).To(Equal("func main() {"))
		Expect(joined(lines[1])).To(Equal("\tprintln(42)"))
		Expect(joined(lines[2])).To(Equal("}"))
	})

	It("should style keywords differently from plain text", func() {
		lines := tui.HighlightLines("func main() {}", "go")

		Expect(lines).ToNot(BeEmpty())
		styles := map[int32]bool{}
		for _, span := range lines[0] {
			fg, _, _ := span.Style.Decompose()
			styles[fg.Hex()] = true
		}
		Expect(len(styles)).To(BeNumerically(">", 1))
	})

	It("should fall back to plain lines for unknown languages", func() {
		lines := tui.HighlightLines("whatever content", "nosuchlang")

		Expect(lines).To(HaveLen(1))
		Expect(joined(lines[0])).To(Equal("whatever content"))
	})
})
