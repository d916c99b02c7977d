package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/intakechat/internal/models"
	"github.com/diogo/intakechat/internal/render"
)

// Message types for the TUI
type (
	initDoneMsg struct {
		err error
	}
	submitDoneMsg struct {
		err error
	}
	clipboardMsg struct {
		err error
	}
)

// ChatController defines the controller operations needed by the TUI
type ChatController interface {
	Initialize(ctx context.Context) error
	Submit(ctx context.Context, text string) error
	Messages() []models.Message
	IsLoading() bool
	Ready() bool
	LastReply() (string, bool)
}

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

// Model represents the TUI state. Everything shown is derived from the
// controller; the model only adds layout and input handling.
type Model struct {
	ctx   context.Context
	chat  ChatController
	title string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// State
	ready        bool // first WindowSizeMsg received
	initializing bool
	submitting   bool // set on enter, cleared when the cycle returns
	notice       string

	renderOpts render.Options
	// rendered caches assistant markdown by message position
	rendered map[int]string

	width  int
	height int
}

// Options configures the chat TUI
type Options struct {
	Title    string
	Markdown render.Options
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, chat ChatController, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "Type your message..."
	in.CharLimit = 4000
	in.Prompt = "› "
	in.PromptStyle = lipgloss.NewStyle().Foreground(colorUser)
	in.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	title := opts.Title
	if title == "" {
		title = "Project Intake"
	}
	renderOpts := opts.Markdown
	if renderOpts.Style == "" {
		renderOpts = render.DefaultOptions()
	}

	return Model{
		ctx:          ctx,
		chat:         chat,
		title:        title,
		input:        in,
		spinner:      s,
		initializing: true,
		renderOpts:   renderOpts,
		rendered:     make(map[int]string),
	}
}

// Init starts thread creation
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.initialize(),
	)
}

// initialize runs the controller's Initialize. Failures were already logged
// by the controller and are not shown.
func (m Model) initialize() tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: m.chat.Initialize(m.ctx)}
	}
}

// send runs one submission cycle
func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{err: m.chat.Submit(m.ctx, text)}
	}
}

// loading reports whether input should be disabled
func (m Model) loading() bool {
	return m.submitting || m.chat.IsLoading()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			return m.submit()
		}

	case initDoneMsg:
		m.initializing = false
		m.refresh()

	case submitDoneMsg:
		m.submitting = false
		m.input.Focus()
		m.refresh()
		m.viewport.GotoBottom()
		cmds = append(cmds, textinput.Blink)

	case clipboardMsg:
		if msg.err != nil {
			m.notice = "Copy failed"
		} else {
			m.notice = "Copied last reply"
		}

	case spinner.TickMsg:
		if m.loading() || m.initializing {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			// the controller appends the user's message from the submit goroutine
			m.refresh()
		}
	}

	if !m.loading() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles enter: whitespace-only input and input while loading are
// ignored, otherwise the text goes to the controller untrimmed.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading() {
		return m, nil
	}
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.submitting = true
	m.notice = ""

	return m, tea.Batch(m.send(text), m.spinner.Tick)
}

func (m Model) copyLastReply() tea.Cmd {
	reply, ok := m.chat.LastReply()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return clipboardMsg{err: clipboardWrite(reply)}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 3
	statusHeight := 1
	borders := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - borders
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		if m.viewport.Width != contentWidth {
			m.rendered = make(map[int]string)
		}
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = contentWidth - 16
	m.refresh()
}

// refresh rebuilds the viewport from the controller's message log
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.chat.Messages()))
}

// renderMessages renders the log as rows keyed by position
func (m *Model) renderMessages(messages []models.Message) string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range messages {
		if i > 0 {
			content.WriteString("\n")
		}
		switch msg.Role {
		case models.RoleUser:
			content.WriteString(userLabelStyle.Render("You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Content))
		default:
			text, ok := m.rendered[i]
			if !ok {
				text = render.Reply(msg.Content, m.renderOpts.WithWidth(bubbleWidth-4))
				m.rendered[i] = text
			}
			content.WriteString(assistantLabelStyle.Render("Assistant"))
			content.WriteString("\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(text))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ "+m.title),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.statusText()),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(m.renderInput()))
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusText() string {
	switch {
	case m.initializing:
		return m.spinner.View() + " connecting"
	case m.loading():
		return m.spinner.View() + " assistant is thinking"
	case m.notice != "":
		return noticeStyle.Render(m.notice)
	default:
		return "connected"
	}
}

// renderInput renders the text field and the send button
func (m Model) renderInput() string {
	if m.loading() {
		field := inputDisabledStyle.Width(m.input.Width + 2).Render(m.input.Prompt + m.input.Placeholder)
		return lipgloss.JoinHorizontal(lipgloss.Center, field, " ", buttonBusyStyle.Render("Sending..."))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", buttonStyle.Render("Send"))
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy reply"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, chat ChatController, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(ctx, chat, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat ui: %w", err)
	}
	return nil
}
