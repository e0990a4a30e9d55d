package tui_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/chat"
	"parley/pkg/config"
	"parley/pkg/controllers"
	"parley/pkg/events"
	"parley/pkg/tui"
)

// fakeController records widget calls and serves a fixed snapshot.
type fakeController struct {
	mu      sync.Mutex
	snap    controllers.Snapshot
	sendErr error
	sent    []string
	stops   int
	clears  int
	toggled []string
}

func (f *fakeController) Send(_ context.Context, content string) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return chat.Message{}, f.sendErr
	}
	f.sent = append(f.sent, content)
	return chat.NewUserMessage(content), nil
}

func (f *fakeController) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeController) ClearAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

func (f *fakeController) ToggleThinking(spanID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggled = append(f.toggled, spanID)
	return true
}

func (f *fakeController) Snapshot() controllers.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.sent...)
}

func (f *fakeController) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *fakeController) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

func (f *fakeController) Toggled() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.toggled...)
}

// appHandle runs an App against a simulation screen and quits it
// exactly once.
type appHandle struct {
	screen tcell.SimulationScreen
	ctrl   *fakeController
	bus    *events.Bus
	done   chan error

	quitOnce sync.Once
	quitErr  error
}

func startApp(snap controllers.Snapshot, tweaks ...func(*config.Settings)) *appHandle {
	screen := newSimScreen(100, 30)
	ctrl := &fakeController{snap: snap}
	bus := events.NewBus()

	cfg := &config.Settings{}
	cfg.ShowThinking = true
	cfg.TypingIndicator = "dots"
	cfg.SSE.Endpoint = "http://localhost:8787/api/sse/chat"
	for _, tweak := range tweaks {
		tweak(cfg)
	}

	app := tui.NewAppWithScreen(screen, ctrl, bus, cfg)
	handle := &appHandle{
		screen: screen,
		ctrl:   ctrl,
		bus:    bus,
		done:   make(chan error, 1),
	}

	go func() {
		handle.done <- app.Run(context.Background())
	}()

	DeferCleanup(func() {
		Expect(handle.quit()).To(Succeed())
		bus.Close()
	})

	return handle
}

func (h *appHandle) quit() error {
	h.quitOnce.Do(func() {
		h.screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModNone)
		select {
		case h.quitErr = <-h.done:
		case <-time.After(5 * time.Second):
			h.quitErr = errors.New("app did not exit")
		}
	})
	return h.quitErr
}

func (h *appHandle) content() string {
	return captureText(h.screen)
}

func (h *appHandle) typeText(text string) {
	for _, r := range text {
		h.screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

var _ = Describe("App", func() {
	at := time.Date(2026, 8, 22, 10, 30, 0, 0, time.UTC)

	transcript := controllers.Snapshot{
		Messages: []controllers.MessageView{
			{ID: "u1", Role: chat.RoleUser, Main: "hi", Timestamp: at},
			{
				ID:   "m1",
				Role: chat.RoleAssistant,
				Sections: []controllers.ThinkingSection{{
					SpanID:   "m1-thinking-0",
					Content:  "pondering",
					Complete: true,
				}},
				Main:      "the answer",
				Timestamp: at,
			},
		},
	}

	It("should render the transcript and status bar", func() {
		handle := startApp(transcript)

		Eventually(handle.content, "3s", "20ms").Should(SatisfyAll(
			ContainSubstring("You: hi"),
			ContainSubstring("Assistant:"),
			ContainSubstring("▸ thinking"),
			ContainSubstring("the answer"),
			ContainSubstring("http://localhost:8787/api/sse/chat"),
			ContainSubstring("2 messages"),
		))
	})

	It("should send composed input on enter", func() {
		handle := startApp(controllers.Snapshot{})

		handle.typeText("hello there")
		Eventually(handle.content, "3s", "20ms").Should(ContainSubstring("hello there"))

		handle.screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

		Eventually(handle.ctrl.Sent, "3s", "20ms").Should(Equal([]string{"hello there"}))
		Eventually(handle.content, "3s", "20ms").ShouldNot(ContainSubstring("hello there"))
	})

	It("should not send blank input", func() {
		handle := startApp(controllers.Snapshot{})

		handle.typeText("   ")
		handle.screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
		handle.screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

		Consistently(handle.ctrl.Sent, "300ms", "50ms").Should(BeEmpty())
	})

	It("should surface rejected sends on the alert row", func() {
		handle := startApp(controllers.Snapshot{})
		handle.ctrl.mu.Lock()
		handle.ctrl.sendErr = errors.New("a response is still streaming")
		handle.ctrl.mu.Unlock()

		handle.typeText("x")
		handle.screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

		Eventually(handle.content, "3s", "20ms").Should(ContainSubstring("a response is still streaming"))
	})

	It("should stop the stream on ctrl+x", func() {
		handle := startApp(controllers.Snapshot{})

		handle.screen.InjectKey(tcell.KeyCtrlX, 0, tcell.ModNone)

		Eventually(handle.ctrl.Stops, "3s", "20ms").Should(Equal(1))
	})

	It("should clear the conversation on ctrl+l", func() {
		handle := startApp(transcript)

		handle.screen.InjectKey(tcell.KeyCtrlL, 0, tcell.ModNone)

		Eventually(handle.ctrl.Clears, "3s", "20ms").Should(Equal(1))
	})

	It("should toggle thinking sections from the keyboard, newest first", func() {
		snap := transcript
		second := controllers.MessageView{
			ID:   "m2",
			Role: chat.RoleAssistant,
			Sections: []controllers.ThinkingSection{
				{SpanID: "m2-thinking-0", Content: "a", Complete: true},
				{SpanID: "m2-thinking-1", Content: "b", Complete: true},
			},
			Main:      "done",
			Timestamp: at,
		}
		snap.Messages = append(append([]controllers.MessageView{}, snap.Messages...), second)

		handle := startApp(snap)
		Eventually(handle.content, "3s", "20ms").Should(ContainSubstring("thinking"))

		handle.screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
		Eventually(handle.ctrl.Toggled, "3s", "20ms").Should(Equal([]string{"m2-thinking-1"}))

		handle.screen.InjectKey(tcell.KeyBacktab, 0, tcell.ModNone)
		handle.screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
		Eventually(handle.ctrl.Toggled, "3s", "20ms").Should(Equal([]string{"m2-thinking-1", "m2-thinking-0"}))
	})

	It("should toggle a thinking section on click", func() {
		handle := startApp(transcript)
		Eventually(handle.content, "3s", "20ms").Should(ContainSubstring("▸ thinking"))

		// The header sits on the fourth transcript row.
		handle.screen.InjectMouse(5, 3, tcell.Button1, tcell.ModNone)
		handle.screen.InjectMouse(5, 3, tcell.ButtonNone, tcell.ModNone)

		Eventually(handle.ctrl.Toggled, "3s", "20ms").Should(ContainElement("m1-thinking-0"))
	})

	It("should show the typing indicator while waiting", func() {
		snap := transcript
		snap.Typing = true

		handle := startApp(snap)

		Eventually(func() string {
			return rowText(handle.screen, 24)
		}, "3s", "20ms").Should(HavePrefix("  ·"))
	})

	It("should reveal a streaming reply through the typewriter", func() {
		live := controllers.MessageView{
			ID:        "m9",
			Role:      chat.RoleAssistant,
			Main:      "hello world",
			Timestamp: at,
			Streaming: true,
		}
		snap := controllers.Snapshot{
			Messages:  []controllers.MessageView{live},
			Streaming: true,
		}

		handle := startApp(snap, func(cfg *config.Settings) {
			cfg.Typewriter.ChunkSize = 3
		})

		Eventually(handle.content, "5s", "20ms").Should(ContainSubstring("hello world▌"))
	})

	It("should scroll back through a long transcript", func() {
		var views []controllers.MessageView
		for i := 0; i < 30; i++ {
			views = append(views, controllers.MessageView{
				ID:        fmt.Sprintf("u%d", i),
				Role:      chat.RoleUser,
				Main:      fmt.Sprintf("msg-%d", i),
				Timestamp: at,
			})
		}

		handle := startApp(controllers.Snapshot{Messages: views})

		Eventually(handle.content, "3s", "20ms").Should(ContainSubstring("msg-29"))
		Expect(handle.content()).ToNot(ContainSubstring("msg-0 "))

		handle.screen.InjectKey(tcell.KeyPgUp, 0, tcell.ModNone)
		handle.screen.InjectKey(tcell.KeyPgUp, 0, tcell.ModNone)

		Eventually(handle.content, "3s", "20ms").Should(ContainSubstring("msg-0"))
	})

	It("should exit on ctrl+c", func() {
		handle := startApp(controllers.Snapshot{})

		Expect(handle.quit()).To(Succeed())
	})
})
