// Package tui provides the interactive chat interface: a transcript
// viewport over the engine with streaming answers, grounded sources
// under each answer and slash commands for mode toggles.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driving"
)

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// engineEventMsg wraps an engine event into a Bubble Tea message.
type engineEventMsg struct {
	event domain.Event
}

// askDoneMsg reports that an Ask finished, successfully or not.
type askDoneMsg struct {
	err error
}

// clearDoneMsg reports that a ClearAll finished.
type clearDoneMsg struct {
	err error
}

// App is the chat application following the Elm architecture.
type App struct {
	engine driving.Engine
	ctx    context.Context
	styles *Styles

	input    textinput.Model
	viewport viewport.Model

	transcript []domain.Message
	status     string
	progress   float64
	alert      string

	strict      bool
	showContext bool
	asking      bool

	width  int
	height int
	ready  bool
}

// NewApp creates the chat application over the given engine.
func NewApp(ctx context.Context, engine driving.Engine) *App {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "질문을 입력하세요 (/strict /context /clear /quit)"
	input.Focus()
	input.CharLimit = 0

	return &App{
		engine:     engine,
		ctx:        ctx,
		styles:     DefaultStyles(),
		input:      input,
		viewport:   viewport.New(0, 0),
		transcript: engine.Transcript(),
		status:     engine.Status(),
	}
}

// Run starts the program and forwards engine events into it. Blocks
// until the user quits.
func Run(ctx context.Context, engine driving.Engine) error {
	app := NewApp(ctx, engine)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	cancel := engine.Subscribe(func(event domain.Event) {
		program.Send(engineEventMsg{event: event})
	})
	defer cancel()

	_, err := program.Run()
	return err
}

// Init initialises the model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles terminal and engine messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.ready = true
		a.resize()
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return a, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return a.submit()
		}

	case engineEventMsg:
		a.consume(msg.event)
		return a, nil

	case askDoneMsg:
		a.asking = false
		a.refresh()
		return a, nil

	case clearDoneMsg:
		a.asking = false
		if msg.err != nil {
			a.alert = msg.err.Error()
		}
		a.refresh()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit handles enter: slash commands run immediately, anything else
// becomes a question for the engine.
func (a *App) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.input.Value())
	if text == "" {
		return a, nil
	}

	switch text {
	case "/quit", "/q":
		return a, tea.Quit
	case "/strict":
		a.strict = !a.strict
		a.input.Reset()
		return a, nil
	case "/context":
		a.showContext = !a.showContext
		a.input.Reset()
		return a, nil
	case "/clear":
		a.input.Reset()
		if a.asking {
			return a, nil
		}
		a.asking = true
		return a, a.clearCmd()
	}

	if a.asking {
		return a, nil
	}
	a.asking = true
	a.alert = ""
	a.input.Reset()
	return a, a.askCmd(text)
}

// askCmd runs the question on the engine off the UI goroutine. The
// streamed answer arrives through engine events; the returned message
// only flips the busy flag back.
func (a *App) askCmd(question string) tea.Cmd {
	opts := domain.AskOptions{Strict: a.strict, ShowContext: a.showContext}
	return func() tea.Msg {
		if !a.engine.GeneratorReady() {
			if err := a.engine.LoadGenerator(a.ctx, ""); err != nil {
				return askDoneMsg{err: err}
			}
		}
		return askDoneMsg{err: a.engine.Ask(a.ctx, question, opts)}
	}
}

func (a *App) clearCmd() tea.Cmd {
	return func() tea.Msg {
		return clearDoneMsg{err: a.engine.ClearAll(a.ctx)}
	}
}

// consume folds one engine event into the view state.
func (a *App) consume(event domain.Event) {
	switch event := event.(type) {
	case domain.StatusChanged:
		a.status = event.Text
	case domain.ProgressChanged:
		a.progress = event.Fraction
	case domain.AlertRaised:
		a.alert = event.Text
	case domain.MessageAppended, domain.MessageDeltaAppended, domain.MessageMetaReplaced, domain.DocumentsChanged:
		a.transcript = a.engine.Transcript()
	}
	a.refresh()
}

// resize fits the viewport into the current terminal size.
func (a *App) resize() {
	_, chatFrame := a.styles.ChatBox.GetFrameSize()
	_, inputFrame := a.styles.InputBox.GetFrameSize()
	reserved := 1 + inputFrame + 1 + 2 // title, input box, footer, spacers

	h := a.height - reserved - chatFrame
	if h < 3 {
		h = 3
	}
	w := a.width - 4
	if w < 20 {
		w = 20
	}
	a.viewport.Width = w
	a.viewport.Height = h
	a.input.Width = w
}

// refresh re-renders the transcript into the viewport, keeping the
// latest message visible.
func (a *App) refresh() {
	a.transcript = a.engine.Transcript()
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

// View renders the full chat layout.
func (a *App) View() string {
	if !a.ready {
		return "준비 중..."
	}

	title := a.styles.Title.Render("savinghaey")
	if a.strict {
		title += "  " + a.styles.Strict.Render("[엄격 모드]")
	}
	if a.showContext {
		title += "  " + a.styles.Source.Render("[근거 표시]")
	}

	chat := a.styles.ChatBox.Render(a.viewport.View())
	input := a.styles.InputBox.Render(a.input.View())

	return title + "\n" + chat + "\n" + input + "\n" + a.footer()
}

// footer renders the status line with the progress bar and any alert.
func (a *App) footer() string {
	status := a.styles.Status.Render(a.status)
	if a.progress > 0 && a.progress < 1 {
		status += " " + a.styles.Status.Render(progressBar(a.progress, 20))
	}
	if a.alert != "" {
		status += "  " + a.styles.Warning.Render(a.alert)
	}
	return status
}

// renderTranscript renders every message with its role styling, the
// streamed cursor on pending answers and the sources block under
// finished ones.
func (a *App) renderTranscript() string {
	if len(a.transcript) == 0 {
		docs := len(a.engine.Documents())
		return a.styles.Pending.Render(fmt.Sprintf(
			"문서 %d개, 청크 %d개가 준비되어 있습니다. 질문을 입력하세요.",
			docs, a.engine.ChunkCount()))
	}

	var b strings.Builder
	for i, msg := range a.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(a.styles.User.Render("질문  ") + msg.Text)
		case domain.RoleAssistant:
			b.WriteString(a.renderAnswer(msg))
		}
	}
	return b.String()
}

func (a *App) renderAnswer(msg domain.Message) string {
	var b strings.Builder
	b.WriteString(a.styles.User.Render("답변  "))

	text := msg.Text
	if msg.Meta != nil && msg.Meta.State == domain.AnswerPending {
		text += "▌"
		b.WriteString(a.styles.Pending.Render(text))
		return b.String()
	}
	b.WriteString(a.styles.Assistant.Render(text))

	meta := msg.Meta
	if meta == nil {
		return b.String()
	}
	if meta.State == domain.AnswerFailed && meta.Err != "" {
		b.WriteString("\n" + a.styles.Error.Render("오류: "+meta.Err))
	}
	if meta.Warning != "" {
		b.WriteString("\n" + a.styles.Warning.Render(meta.Warning))
	}
	for _, src := range meta.Sources {
		line := fmt.Sprintf("  %s %s p.%d (%.3f)", src.Label(), src.DocName, src.Page, src.Score)
		if src.Used {
			b.WriteString("\n" + a.styles.SourceHit.Render(line))
		} else {
			b.WriteString("\n" + a.styles.Source.Render(line))
		}
	}
	return b.String()
}

// progressBar renders a fixed-width unicode bar for the fraction.
func progressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
