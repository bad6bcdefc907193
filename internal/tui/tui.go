// internal/tui/tui.go
// Package tui provides the interactive chat interface for the Agora
// application.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/agora/internal/appconfig"
	"github.com/mwiater/agora/internal/session"
	"github.com/mwiater/agora/internal/util"
)

// transcriptLine is one rendered exchange line in the chat view.
type transcriptLine struct {
	role    string
	content string
}

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx              context.Context
	config           *appconfig.Config
	session          *session.Session
	isLoading        bool
	err              error
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	transcript       []transcriptLine
	width, height    int
	requestStartTime time.Time
}

// turnDoneMsg is a message sent when a conversational turn has completed.
type turnDoneMsg struct {
	query  string
	answer string
}

// turnErrMsg is a message sent when a conversational turn fails.
type turnErrMsg struct {
	query string
	err   error
}

// tickMsg is a message sent at regular intervals, used for the thinking
// timer.
type tickMsg time.Time

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cfg *appconfig.Config, sess *session.Session) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Ask a question..."
	ta.Focus()
	ta.Prompt = "Ask Anything: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(100, 5)

	return &model{
		ctx:      ctx,
		config:   cfg,
		session:  sess,
		spinner:  s,
		textArea: ta,
		viewport: vp,
	}
}

// turnCmd creates a Bubble Tea command that runs one conversational turn.
func turnCmd(ctx context.Context, sess *session.Session, query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := sess.Turn(ctx, query)
		if err != nil {
			return turnErrMsg{query: query, err: err}
		}
		return turnDoneMsg{query: query, answer: answer}
	}
}

// tickCmd creates a Bubble Tea command that sends a tickMsg at a regular
// interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the Bubble Tea model and starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.isLoading {
				return m, nil
			}
			query := strings.TrimSpace(m.textArea.Value())
			if query == "" {
				return m, nil
			}
			if strings.EqualFold(query, m.config.ExitWord) {
				return m, tea.Quit
			}
			m.transcript = append(m.transcript, transcriptLine{role: "user", content: query})
			m.textArea.Reset()
			m.isLoading = true
			m.err = nil
			m.requestStartTime = time.Now()
			return m, tea.Batch(m.spinner.Tick, turnCmd(m.ctx, m.session, query), tickCmd())
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 4
		m.viewport.Width = msg.Width
		m.viewport.Height = util.Min(msg.Height-headerHeight-footerHeight, msg.Height)

	case turnDoneMsg:
		m.isLoading = false
		m.transcript = append(m.transcript, transcriptLine{role: "assistant", content: msg.answer})
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case turnErrMsg:
		m.isLoading = false
		m.err = msg.err
		m.textArea.Focus()
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.textArea, cmd = m.textArea.Update(msg)
	cmds = append(cmds, cmd)

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	return m.chatView()
}

// chatView renders the header, transcript, and input area.
func (m *model) chatView() string {
	var builder strings.Builder

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)

	modelInfo := fmt.Sprintf("Model: %s", m.config.ChatModel)
	routerInfo := fmt.Sprintf("Router: %s", m.config.RouterMode)
	sourceInfo := fmt.Sprintf("Sources: %d", len(m.config.Sources))

	status := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Agora:"),
		headerStyle.Render(modelInfo),
		headerStyle.MarginLeft(1).Render(routerInfo),
		headerStyle.MarginLeft(1).Render(sourceInfo),
	)
	help := lipgloss.NewStyle().Render(" (esc to quit)")
	builder.WriteString(status + help + "\n\n")

	var historyBuilder strings.Builder
	userStyle := lipgloss.NewStyle().Bold(true)
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))

	for _, line := range m.transcript {
		var role string
		if line.role == "assistant" {
			role = assistantStyle.Render("Assistant: ")
		} else {
			role = userStyle.Render("You: ")
		}
		wrapped := lipgloss.NewStyle().Width(m.width - lipgloss.Width(role) - 2).Render(line.content)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrapped) + "\n")
	}

	m.viewport.SetContent(historyBuilder.String())
	builder.WriteString(m.viewport.View())

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		builder.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Assistant is thinking... %ss", timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	return builder.String()
}

// StartGUI initializes and runs the interactive chat TUI over a prepared
// session.
func StartGUI(ctx context.Context, cfg *appconfig.Config, sess *session.Session) error {
	m := initialModel(ctx, cfg, sess)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
