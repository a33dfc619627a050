// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"vessel/internal/dashboard"
	"vessel/internal/output"
	"vessel/internal/service"
)

const (
	defaultWidth  = 100
	sidebarWidth  = 28
	inputCount    = 3
	focusSidebar  = inputCount
	focusCount    = inputCount + 1
	maxStatusLine = 120
)

var inputLabels = [inputCount]string{"News", "Knowledge", "Stock"}

// Model is the root Bubble Tea model.
type Model struct {
	ctx       context.Context
	orch      *dashboard.Orchestrator
	reg       *dashboard.Registry
	analytics *dashboard.Analytics
	log       *zap.Logger

	inputs  [inputCount]textinput.Model
	spinner spinner.Model
	styles  styles

	focus     int
	tasks     []service.Task
	cursor    int
	view      dashboard.View
	showStats bool
	status    string

	width  int
	height int
}

// New creates a dashboard model over backend. Operations run with ctx.
func New(ctx context.Context, backend service.Backend, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("tui")
	orch := dashboard.NewOrchestrator(backend, log)
	st := defaultStyles()

	m := Model{
		ctx:       ctx,
		orch:      orch,
		reg:       dashboard.NewRegistry(backend, orch, log),
		analytics: dashboard.NewAnalytics(backend, log),
		log:       log,
		styles:    st,
		width:     defaultWidth,
	}

	placeholders := [inputCount]string{"topic, e.g. ai chips", "search past results", "symbol, e.g. AAPL"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = "> "
		ti.CharLimit = 256
		ti.Width = 24
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Spinner
	m.spinner = sp
	return m
}

// Init starts the spinner, the change listener and the first task load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.refreshTasks(),
		m.waitForChange(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case changedMsg:
		m.view = dashboard.Project(m.orch.Snapshot())
		return m, m.waitForChange()

	case opDoneMsg:
		m.view = dashboard.Project(m.orch.Snapshot())
		m.setTasks(m.reg.Tasks())
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.log.Debug("operation failed", zap.Error(msg.err))
		}
		return m, nil

	case tasksMsg:
		m.setTasks(msg.tasks)
		m.status = ""
		if msg.err != nil {
			m.status = truncate(msg.err.Error(), maxStatusLine)
		}
		return m, nil

	case statsMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.setFocus((m.focus + 1) % focusCount), nil
	case "shift+tab":
		return m.setFocus((m.focus + focusCount - 1) % focusCount), nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "esc":
		return m.setFocus(focusSidebar), nil
	case "enter":
		return m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "enter":
		if task, ok := m.selected(); ok {
			m.showStats = false
			id := task.ID
			return m, m.runOp(func(ctx context.Context) error { return m.reg.Select(ctx, id) })
		}
	case "d":
		if task, ok := m.selected(); ok {
			return m, m.deleteTask(task.ID)
		}
	case "r":
		return m, m.refreshTasks()
	case "a":
		m.showStats = !m.showStats
		if m.showStats {
			return m, m.loadStats()
		}
	}
	return m, nil
}

// submit runs the query typed into the focused input.
func (m Model) submit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.inputs[m.focus].Value())
	if query == "" {
		return m, nil
	}
	m.showStats = false
	orch := m.orch
	var op func(context.Context) error
	switch m.focus {
	case 0:
		op = func(ctx context.Context) error { return orch.SearchNews(ctx, query) }
	case 1:
		op = func(ctx context.Context) error { return orch.SearchKnowledge(ctx, query) }
	case 2:
		op = func(ctx context.Context) error { return orch.SearchStock(ctx, query) }
	}
	return m, m.runOp(op)
}

func (m Model) setFocus(focus int) Model {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m *Model) setTasks(tasks []service.Task) {
	m.tasks = tasks
	if m.cursor >= len(tasks) {
		m.cursor = max(len(tasks)-1, 0)
	}
}

func (m Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// View renders the UI.
func (m Model) View() string {
	header := m.styles.Title.Render("VESSEL") + "  " +
		m.styles.Muted.Render("tab: switch  enter: run/select  d: delete  r: refresh  a: stats  ctrl+c: quit")

	var inputs []string
	for i, in := range m.inputs {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.FocusLabel
		}
		inputs = append(inputs, label.Render(inputLabels[i])+" "+in.View())
	}

	resultsWidth := max(m.width-sidebarWidth-6, 20)
	sidebar := m.styles.Sidebar.Width(sidebarWidth).Render(m.renderSidebar())
	var body string
	if m.showStats {
		body = m.renderStats()
	} else {
		body = renderResults(m.view, m.spinner.View(), m.styles)
	}
	results := m.styles.Results.Width(resultsWidth).Render(body)

	sections := []string{
		header,
		strings.Join(inputs, "   "),
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, results),
	}
	if m.status != "" {
		sections = append(sections, m.styles.Error.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	title := m.styles.Heading
	if m.focus == focusSidebar {
		title = m.styles.FocusLabel
	}
	b.WriteString(title.Render("Searches"))
	b.WriteString("\n")
	if len(m.tasks) == 0 {
		b.WriteString(m.styles.Muted.Render("no tasks yet"))
		return b.String()
	}
	for i, t := range m.tasks {
		line := truncate(fmt.Sprintf("#%d %s", t.ID, t.Topic), sidebarWidth-2)
		if i == m.cursor {
			line = m.styles.Selected.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStats() string {
	v := m.analytics.Project()
	if v.Stats == nil {
		if v.Loading {
			return m.spinner.View() + " " + v.Message
		}
		return m.styles.Error.Render(v.Message)
	}
	var b strings.Builder
	output.FormatStats(&b, v.Stats)
	return m.styles.Heading.Render("Analytics") + "\n" + strings.TrimRight(b.String(), "\n")
}

// renderResults renders the results pane for a projected view.
func renderResults(v dashboard.View, spin string, st styles) string {
	var parts []string
	for _, l := range v.Loading {
		parts = append(parts, spin+" "+l.Text)
	}
	if v.Error != "" {
		parts = append(parts, st.Error.Render(v.Error))
	}

	var b strings.Builder
	switch v.Active {
	case dashboard.LaneNews:
		for i, a := range v.Articles {
			output.FormatArticle(&b, i+1, a)
		}
	case dashboard.LaneKnowledge:
		for i, d := range v.Documents {
			output.FormatDocument(&b, i+1, d)
		}
	case dashboard.LaneStock:
		if v.Stock != nil {
			output.FormatStock(&b, v.Stock)
		}
		output.FormatHistory(&b, v.History, output.SparklineWidth)
		if v.HistoryEmpty != "" {
			b.WriteString(v.HistoryEmpty + "\n")
		}
	}
	if b.Len() > 0 {
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}
	if v.Empty != "" {
		parts = append(parts, st.Muted.Render(v.Empty))
	}
	if len(parts) == 0 {
		return st.Muted.Render("Search news, the knowledge base or a stock symbol.")
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
