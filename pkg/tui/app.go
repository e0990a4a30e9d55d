package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"parley/pkg/chat"
	"parley/pkg/config"
	"parley/pkg/controllers"
	"parley/pkg/events"
	"parley/pkg/logger"
)

var tuiLog = logger.WithComponent("tui")

const (
	tickInterval  = 80 * time.Millisecond
	alertDuration = 4 * time.Second
)

// Controller is the widget surface the terminal client drives.
// *controllers.WidgetController satisfies it; tests swap in fakes.
type Controller interface {
	Send(ctx context.Context, content string) (chat.Message, error)
	Stop()
	ClearAll() error
	ToggleThinking(spanID string) bool
	Snapshot() controllers.Snapshot
}

// typewriter reveals a streaming reply chunk by chunk, matching the
// web widget's animated text. shown counts revealed runes of the live
// message's visible content.
type typewriter struct {
	id    string
	shown int
}

// App owns the tcell screen and translates terminal events into
// controller calls. All screen access happens on the event loop;
// background goroutines communicate through posted events.
type App struct {
	screen tcell.Screen
	ctrl   Controller
	bus    *events.Bus
	cfg    *config.Settings

	input     InputField
	display   MessageDisplay
	indicator TypingIndicator
	tw        typewriter

	sectionCursor int
	maxScroll     int

	alert      string
	alertUntil time.Time

	lastLines []Line
	lastTop   int
	msgArea   Rect

	runCtx context.Context
}

// NewApp opens the real terminal screen. Callers must Run to start
// the event loop and release the terminal.
func NewApp(ctrl Controller, bus *events.Bus, cfg *config.Settings) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal screen: %w", err)
	}
	screen.EnableMouse()
	return NewAppWithScreen(screen, ctrl, bus, cfg), nil
}

// NewAppWithScreen wires the app onto an already-initialized screen.
func NewAppWithScreen(screen tcell.Screen, ctrl Controller, bus *events.Bus, cfg *config.Settings) *App {
	ApplyTheme(cfg.Theme)
	return &App{
		screen:    screen,
		ctrl:      ctrl,
		bus:       bus,
		cfg:       cfg,
		input:     NewInputField(),
		display:   NewMessageDisplay(0).WithShowThinking(cfg.ShowThinking),
		indicator: NewTypingIndicator(cfg.TypingIndicator),
	}
}

// Run drives the event loop until the user quits or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	a.runCtx = ctx
	defer a.screen.Fini()

	a.bus.Subscribe("*", func(events.Event) {
		_ = a.screen.PostEvent(NewRedrawEvent())
	})
	defer a.bus.Unsubscribe("*")

	quit := make(chan struct{})
	defer close(quit)

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = a.screen.PostEvent(NewTickEvent())
			case <-quit:
				return
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(NewQuitEvent())
		case <-quit:
		}
	}()

	tuiLog.Debug("Event loop started")
	a.draw()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if a.handleKey(ev) {
				tuiLog.Debug("Quit requested")
				return nil
			}
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *TickEvent:
			a.onTick()
		case *AlertEvent:
			a.showAlert(ev.Text)
		case *RedrawEvent:
		case *QuitEvent:
			return ctx.Err()
		}

		a.draw()
	}
}

// handleKey returns true when the app should exit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true

	case tcell.KeyEnter:
		text := a.input.Content
		a.input = a.input.Clear()
		a.display = a.display.WithScroll(0)
		if strings.TrimSpace(text) != "" {
			go a.send(text)
		}

	case tcell.KeyEscape:
		a.input = a.input.Clear()
		a.alert = ""

	case tcell.KeyTab:
		a.toggleTarget()

	case tcell.KeyBacktab:
		a.retarget()

	case tcell.KeyCtrlX:
		a.ctrl.Stop()

	case tcell.KeyCtrlL:
		if err := a.ctrl.ClearAll(); err != nil {
			a.showAlert(err.Error())
		}
		a.display = a.display.WithScroll(0)
		a.sectionCursor = 0

	case tcell.KeyUp:
		a.scrollBy(1)
	case tcell.KeyDown:
		a.scrollBy(-1)
	case tcell.KeyPgUp:
		a.scrollBy(a.msgArea.Height - 1)
	case tcell.KeyPgDn:
		a.scrollBy(-(a.msgArea.Height - 1))

	case tcell.KeyLeft:
		a.input = a.input.CursorLeft()
	case tcell.KeyRight:
		a.input = a.input.CursorRight()
	case tcell.KeyHome:
		a.input = a.input.CursorHome()
	case tcell.KeyEnd:
		a.input = a.input.CursorEnd()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.input = a.input.DeleteBackward()
	case tcell.KeyDelete:
		a.input = a.input.DeleteForward()

	case tcell.KeyRune:
		a.input = a.input.InsertRune(ev.Rune())
	}

	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()

	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.scrollBy(3)
	case ev.Buttons()&tcell.WheelDown != 0:
		a.scrollBy(-3)
	case ev.Buttons()&tcell.Button1 != 0:
		if !a.msgArea.Contains(x, y) {
			return
		}
		idx := a.lastTop + (y - a.msgArea.Y)
		if idx < 0 || idx >= len(a.lastLines) {
			return
		}
		if id := a.lastLines[idx].SectionID; id != "" {
			a.ctrl.ToggleThinking(id)
		}
	}
}

func (a *App) onTick() {
	a.indicator = a.indicator.Advance()

	if a.tw.id != "" {
		chunk := a.cfg.Typewriter.ChunkSize
		if chunk > 0 {
			a.tw.shown += chunk
		}
	}

	if a.alert != "" && time.Now().After(a.alertUntil) {
		a.alert = ""
	}
}

func (a *App) send(text string) {
	if _, err := a.ctrl.Send(a.runCtx, text); err != nil {
		tuiLog.Debug("Send rejected", "error", err)
		_ = a.screen.PostEvent(NewAlertEvent(err.Error()))
	}
}

func (a *App) showAlert(text string) {
	a.alert = text
	a.alertUntil = time.Now().Add(alertDuration)
}

func (a *App) scrollBy(delta int) {
	scroll := a.display.Scroll + delta
	if scroll > a.maxScroll {
		scroll = a.maxScroll
	}
	a.display = a.display.WithScroll(scroll)
}

// toggleTarget flips the thinking section the Tab binding addresses,
// newest first.
func (a *App) toggleTarget() {
	if id := a.targetID(a.display.SectionIDs()); id != "" {
		a.ctrl.ToggleThinking(id)
	}
}

// retarget moves the Tab binding one section back through the
// transcript, wrapping at the oldest.
func (a *App) retarget() {
	ids := a.display.SectionIDs()
	if len(ids) == 0 {
		return
	}
	a.sectionCursor = (a.sectionCursor + 1) % len(ids)
}

func (a *App) targetID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	cursor := a.sectionCursor % len(ids)
	return ids[len(ids)-1-cursor]
}

func (a *App) draw() {
	width, height := a.screen.Size()
	messageArea, alertArea, inputArea, statusArea := NewLayout(width, height).CalculateAreas()
	a.msgArea = messageArea

	snap := a.ctrl.Snapshot()
	views := a.applyTypewriter(snap.Messages)

	a.indicator = a.indicator.WithVisible(snap.Typing)

	a.display = a.display.WithViews(views).WithWidth(messageArea.Width)
	a.display = a.display.WithTarget(a.targetID(a.display.SectionIDs()))

	lines := a.display.Lines()
	availHeight := messageArea.Height
	if a.indicator.Visible {
		availHeight--
	}

	a.maxScroll = len(lines) - availHeight
	if a.maxScroll < 0 {
		a.maxScroll = 0
	}

	window, top := LineWindow(lines, availHeight, a.display.Scroll)
	a.lastLines = lines
	a.lastTop = top

	RenderLines(a.screen, window, NewRect(messageArea.X, messageArea.Y, messageArea.Width, availHeight))
	RenderTypingLine(a.screen, a.indicator, messageArea)
	RenderAlert(a.screen, a.alert, alertArea)
	RenderInput(a.screen, a.input, inputArea)
	RenderStatus(a.screen, StatusBar{
		Endpoint:  a.cfg.SSE.Endpoint,
		Messages:  len(snap.Messages),
		Typing:    snap.Typing,
		Streaming: snap.Streaming,
	}, statusArea)

	a.screen.Show()
}

// applyTypewriter trims the live reply's visible text to what the
// animation has revealed so far and appends a block caret. Thinking
// content streams in untrimmed, matching the web widget.
func (a *App) applyTypewriter(views []controllers.MessageView) []controllers.MessageView {
	live := -1
	for i, view := range views {
		if view.Streaming && view.Role == chat.RoleAssistant {
			live = i
		}
	}
	if live == -1 {
		a.tw = typewriter{}
		return views
	}

	view := views[live]
	if a.tw.id != view.ID {
		a.tw = typewriter{id: view.ID}
	}

	runes := []rune(view.Main)
	if a.cfg.Typewriter.ChunkSize <= 0 || a.tw.shown > len(runes) {
		a.tw.shown = len(runes)
	}

	out := make([]controllers.MessageView, len(views))
	copy(out, views)
	out[live].Main = string(runes[:a.tw.shown]) + "▌"
	return out
}
