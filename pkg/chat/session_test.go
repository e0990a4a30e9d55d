package chat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/chat"
)

var _ = Describe("SessionTracker", func() {
	var tracker *chat.SessionTracker

	BeforeEach(func() {
		tracker = chat.NewSessionTracker()
	})

	Describe("Start", func() {
		It("should create a streaming session with empty buffers", func() {
			tracker.Start("m1", chat.RoleAssistant)

			view, ok := tracker.Get("m1")
			Expect(ok).To(BeTrue())
			Expect(view.Streaming).To(BeTrue())
			Expect(view.InThinking).To(BeFalse())
			Expect(view.Raw).To(BeEmpty())
			Expect(view.Thinking).To(BeEmpty())
			Expect(view.Main).To(BeEmpty())
		})

		It("should reset buffers on a duplicate start", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.Append("m1", "stale")
			tracker.Start("m1", chat.RoleAssistant)

			view, _ := tracker.Get("m1")
			Expect(view.Raw).To(BeEmpty())
		})
	})

	Describe("Append", func() {
		It("should route chunks to main outside thinking mode", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.Append("m1", "hello")

			view, _ := tracker.Get("m1")
			Expect(view.Raw).To(Equal("hello"))
			Expect(view.Main).To(Equal("hello"))
			Expect(view.Thinking).To(BeEmpty())
		})

		It("should route chunks to thinking inside thinking mode", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.SetThinking("m1", true)
			tracker.Append("m1", "pondering")

			view, _ := tracker.Get("m1")
			Expect(view.Raw).To(Equal("pondering"))
			Expect(view.Thinking).To(Equal("pondering"))
			Expect(view.Main).To(BeEmpty())
		})

		It("should accumulate raw across mode flips", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.SetThinking("m1", true)
			tracker.Append("m1", "a")
			tracker.SetThinking("m1", false)
			tracker.Append("m1", "b")

			view, _ := tracker.Get("m1")
			Expect(view.Raw).To(Equal("ab"))
			Expect(view.Thinking).To(Equal("a"))
			Expect(view.Main).To(Equal("b"))
		})

		It("should create a session when no start was seen", func() {
			tracker.Append("orphan", "chunk")

			view, ok := tracker.Get("orphan")
			Expect(ok).To(BeTrue())
			Expect(view.Main).To(Equal("chunk"))
			Expect(view.Streaming).To(BeTrue())
		})

		It("should count chunks", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.Append("m1", "a")
			tracker.Append("m1", "b")
			tracker.Append("m1", "c")

			view, _ := tracker.Get("m1")
			Expect(view.ChunkCount).To(Equal(3))
		})
	})

	Describe("SetThinking", func() {
		It("should report false for an unknown session", func() {
			Expect(tracker.SetThinking("ghost", true)).To(BeFalse())
		})
	})

	Describe("Take", func() {
		It("should remove the session and mark it not streaming", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.Append("m1", "done")

			view, ok := tracker.Take("m1")
			Expect(ok).To(BeTrue())
			Expect(view.Streaming).To(BeFalse())
			Expect(view.Raw).To(Equal("done"))

			_, ok = tracker.Get("m1")
			Expect(ok).To(BeFalse())
			Expect(tracker.Len()).To(BeZero())
		})
	})

	Describe("TakeAll", func() {
		It("should drain every live session", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.Start("m2", chat.RoleAssistant)

			views := tracker.TakeAll()
			Expect(views).To(HaveLen(2))
			Expect(tracker.Len()).To(BeZero())
		})
	})

	Describe("independent sessions", func() {
		It("should keep concurrent in-flight messages separate", func() {
			tracker.Start("m1", chat.RoleAssistant)
			tracker.Start("m2", chat.RoleAssistant)
			tracker.SetThinking("m1", true)
			tracker.Append("m1", "thought")
			tracker.Append("m2", "answer")

			one, _ := tracker.Get("m1")
			two, _ := tracker.Get("m2")
			Expect(one.Thinking).To(Equal("thought"))
			Expect(two.Main).To(Equal("answer"))
			Expect(two.Thinking).To(BeEmpty())
		})
	})
})
