// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/export"
	"github.com/pdiddy/research-agent/internal/session"
	"github.com/pdiddy/research-agent/pkg/types"
)

const helpText = "enter research • ctrl+s save • ctrl+p print • esc quit"

// chromeLines is the number of rows the banner, input, and help take.
const chromeLines = 7

// Exporter exports a successful session. *export.Manager implements it.
type Exporter interface {
	ExportStructured(s types.Session) (string, error)
	ExportPrintable(ctx context.Context, s types.Session) error
}

type researchDoneMsg struct {
	ID     string
	Result *types.ResearchResult
	Err    error
}

type exportDoneMsg struct {
	Printable bool
	Name      string
	Err       error
}

// Model is the interactive research program. Its Update loop is the only
// place the session changes.
type Model struct {
	transport session.Transport
	exporter  Exporter
	styles    Styles
	logger    *zap.Logger
	newID     func() string

	ctx    context.Context
	cancel context.CancelFunc

	state types.Session

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	width    int
	notice   string
	failed   bool
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithStyles sets the styles, and therefore the theme, of the model.
func WithStyles(s Styles) ModelOption {
	return func(m *Model) { m.styles = s }
}

// WithModelLogger sets the model's logger.
func WithModelLogger(l *zap.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithWidth sets the initial report wrap width.
func WithWidth(w int) ModelOption {
	return func(m *Model) {
		if w > 0 {
			m.width = w
		}
	}
}

// WithSubmissionIDs replaces the UUID generator for submission IDs.
func WithSubmissionIDs(f func() string) ModelOption {
	return func(m *Model) { m.newID = f }
}

// NewModel returns an idle Model. exporter may be nil, which disables the
// export keys.
func NewModel(t session.Transport, exporter Exporter, opts ...ModelOption) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		transport: t,
		exporter:  exporter,
		styles:    NewStyles(LightTheme()),
		logger:    zap.NewNop(),
		newID:     func() string { return uuid.New().String() },
		ctx:       ctx,
		cancel:    cancel,
		state:     types.NewSession(),
		width:     80,
	}
	for _, o := range opts {
		o(&m)
	}

	ti := textinput.New()
	ti.Placeholder = "Enter a research topic (e.g., 'Future of AI in Healthcare')"
	ti.CharLimit = 256
	ti.Prompt = "› "
	ti.Width = m.width - 4
	ti.Focus()
	m.input = ti

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = m.styles.Spinner
	m.spinner = sp

	m.viewport = viewport.New(m.width, 20)
	return m
}

// Session returns the current session state.
func (m Model) Session() types.Session { return m.state }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeLines, 5)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case researchDoneMsg:
		return m.handleResult(msg), nil

	case exportDoneMsg:
		m.handleExport(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state.Status != types.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.state.Status == types.StatusSuccess {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case "enter":
		return m.submit()

	case "ctrl+s":
		if m.exporter == nil || m.state.Status != types.StatusSuccess {
			return m, nil
		}
		return m, m.exportStructured(m.state)

	case "ctrl+p":
		if m.exporter == nil || m.state.Status != types.StatusSuccess {
			return m, nil
		}
		return m, m.exportPrintable(m.state)

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.state.Status == types.StatusLoading {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	topic := m.input.Value()
	if strings.TrimSpace(topic) == "" && m.state.Status != types.StatusLoading {
		m.notice = types.UserMessage(types.ErrEmptyTopic)
		m.failed = false
		return m, nil
	}

	id := m.newID()
	next, ok := session.Transition(m.state, session.Submit{ID: id, Topic: topic})
	if !ok {
		m.logger.Debug("submit ignored", zap.String("status", string(m.state.Status)))
		return m, nil
	}
	m.state = next
	m.notice = ""
	m.logger.Info("research submitted", zap.String("id", id), zap.String("topic", next.Topic))
	return m, tea.Batch(m.spinner.Tick, m.research(id, next.Topic))
}

func (m Model) research(id, topic string) tea.Cmd {
	ctx, t := m.ctx, m.transport
	return func() tea.Msg {
		res, err := t.Research(ctx, topic)
		return researchDoneMsg{ID: id, Result: res, Err: err}
	}
}

func (m Model) handleResult(msg researchDoneMsg) Model {
	if m.quitting {
		return m
	}
	var ev session.Event = session.Succeeded{ID: msg.ID, Result: msg.Result}
	if msg.Err != nil {
		m.logger.Warn("research failed", zap.String("id", msg.ID), zap.Error(msg.Err))
		ev = session.Failed{ID: msg.ID, Message: types.UserMessage(msg.Err)}
	}

	next, ok := session.Transition(m.state, ev)
	if !ok {
		m.logger.Debug("discarding stale response", zap.String("id", msg.ID))
		return m
	}
	m.state = next
	m.logger.Info("research finished", zap.String("id", msg.ID), zap.String("status", string(next.Status)))
	m.refresh()
	m.viewport.GotoTop()
	return m
}

func (m Model) exportStructured(s types.Session) tea.Cmd {
	exp := m.exporter
	return func() tea.Msg {
		name, err := exp.ExportStructured(s)
		return exportDoneMsg{Name: name, Err: err}
	}
}

func (m Model) exportPrintable(s types.Session) tea.Cmd {
	ctx, exp := m.ctx, m.exporter
	return func() tea.Msg {
		return exportDoneMsg{Printable: true, Name: export.PrintTitle(s.Topic), Err: exp.ExportPrintable(ctx, s)}
	}
}

func (m *Model) handleExport(msg exportDoneMsg) {
	switch {
	case errors.Is(msg.Err, export.ErrNothingToExport):
		return
	case msg.Err != nil:
		m.logger.Warn("export failed", zap.Bool("printable", msg.Printable), zap.Error(msg.Err))
		m.failed = true
		if msg.Printable {
			m.notice = "Printable export failed"
		} else {
			m.notice = "Structured export failed"
		}
	default:
		m.failed = false
		m.notice = fmt.Sprintf("Saved %s", msg.Name)
	}
}

// refresh re-renders the result into the viewport.
func (m *Model) refresh() {
	if m.state.Status != types.StatusSuccess || m.state.Result == nil {
		m.viewport.SetContent("")
		return
	}
	out, err := Result(m.styles, m.state.Result, m.width)
	if err != nil {
		m.logger.Warn("rendering result", zap.Error(err))
		out = m.state.Result.ReportContent
	}
	m.viewport.SetContent(out)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{Header(m.styles), "", m.input.View()}
	switch m.state.Status {
	case types.StatusLoading:
		parts = append(parts, "", m.spinner.View()+" "+m.styles.Label.Render("Researching "+m.state.Topic+"..."))
	case types.StatusError:
		parts = append(parts, "", ErrorBox(m.styles, m.state.ErrorMessage))
	case types.StatusSuccess:
		parts = append(parts, "", m.viewport.View())
	}

	if m.notice != "" {
		if m.failed {
			parts = append(parts, ErrorBox(m.styles, m.notice))
		} else {
			parts = append(parts, Notice(m.styles, m.notice))
		}
	}
	parts = append(parts, m.styles.Help.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
