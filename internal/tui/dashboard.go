// Package tui provides the Bubble Tea dashboard for the OctoOps client.
// It is purely presentational: all state lives in the store, and the
// dashboard re-renders on the store's change signal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/browser"
	"github.com/robby/octoops/internal/domain"
	"github.com/robby/octoops/internal/store"
)

// ConnectionReporter exposes the realtime channel state for the
// indicator.
type ConnectionReporter interface {
	Connected() bool
}

// storeChangedMsg signals that store state changed and the view should
// re-render.
type storeChangedMsg struct{}

// storeClosedMsg signals that the store shut down.
type storeClosedMsg struct{}

// DashboardModel renders the project dashboard from store state.
type DashboardModel struct {
	store   *store.Store
	channel ConnectionReporter
	ctx     context.Context
	changes <-chan struct{}

	keymap    KeyMap
	help      help.Model
	width     int
	height    int
	showHelp  bool
	showFeed  bool
	webURL    string
	statusMsg string
}

// NewDashboardModel creates the dashboard over an existing store.
// webURL, if non-empty, is opened by the browser key.
func NewDashboardModel(ctx context.Context, s *store.Store, ch ConnectionReporter, webURL string) DashboardModel {
	return DashboardModel{
		store:   s,
		channel: ch,
		ctx:     ctx,
		changes: s.Subscribe(),
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		webURL:  webURL,
	}
}

// Init kicks off the initial project load and starts listening for store
// changes.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.fetchAll(), m.waitForChange())
}

// Update handles key presses and store change signals.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case storeChangedMsg:
		return m, m.waitForChange()

	case storeClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Refresh):
			m.statusMsg = "refreshing..."
			return m, m.fetchAll()
		case key.Matches(msg, m.keymap.Notifications):
			m.showFeed = !m.showFeed
			return m, nil
		case key.Matches(msg, m.keymap.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keymap.AckToast):
			if toasts := m.store.Toasts(); len(toasts) > 0 {
				m.store.AcknowledgeToast(toasts[0].ID)
			}
			return m, nil
		case key.Matches(msg, m.keymap.Open):
			if m.webURL != "" {
				_ = browser.OpenURL(m.webURL)
			}
			return m, nil
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderAgents())
	b.WriteString("\n\n")

	project := m.store.Project()
	switch {
	case !m.store.IsHydrated():
		b.WriteString(DimStyle.Render("Loading project..."))
	case project == nil:
		b.WriteString(DimStyle.Render("No project yet. Run 'octoops launch' to create one."))
	default:
		b.WriteString(m.renderTasks())
		b.WriteString("\n")
		b.WriteString(m.renderRisks())
		b.WriteString("\n")
		b.WriteString(m.renderTeam())
	}

	if m.showFeed {
		b.WriteString("\n")
		b.WriteString(m.renderFeed())
	}
	for _, t := range m.store.Toasts() {
		b.WriteString("\n")
		b.WriteString(m.renderToast(t))
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(DimStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keymap.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keymap.ShortHelp()))
	}
	return b.String()
}

func (m DashboardModel) renderHeader() string {
	conn := ErrorStyle.Render("○ offline")
	if m.channel != nil && m.channel.Connected() {
		conn = ActiveAgentStyle.Render("● live")
	}

	project := m.store.Project()
	title := "OctoOps"
	if project != nil {
		title = fmt.Sprintf("OctoOps — %s  (health %d, progress %d%%)",
			project.Name, project.HealthScore, project.Progress)
	}
	return TitleStyle.Render(title) + "  " + conn
}

func (m DashboardModel) renderAgents() string {
	statuses := m.store.AgentStatuses()
	parts := make([]string, 0, len(statuses))
	for _, name := range domain.AllAgents() {
		label := fmt.Sprintf("%s:%s", name, statuses[name])
		if statuses[name] == domain.AgentIdle {
			parts = append(parts, DimStyle.Render(label))
		} else {
			parts = append(parts, ActiveAgentStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m DashboardModel) renderTasks() string {
	tasks := m.store.Tasks()
	var b strings.Builder
	b.WriteString(SectionStyle.Render(fmt.Sprintf("Tasks (%d)", len(tasks))))
	b.WriteString("\n")

	byStatus := make(map[domain.TaskStatus]int)
	for _, t := range tasks {
		byStatus[t.Status]++
	}
	order := []domain.TaskStatus{
		domain.TaskTodo, domain.TaskInProgress, domain.TaskInReview,
		domain.TaskDone, domain.TaskBlocked,
	}
	counts := make([]string, 0, len(order))
	for _, st := range order {
		counts = append(counts, fmt.Sprintf("%s %d", st, byStatus[st]))
	}
	b.WriteString(DimStyle.Render(strings.Join(counts, " · ")))
	b.WriteString("\n")

	for i, t := range tasks {
		if i >= 8 {
			b.WriteString(DimStyle.Render(fmt.Sprintf("  ... and %d more", len(tasks)-i)))
			b.WriteString("\n")
			break
		}
		line := fmt.Sprintf("  [%s] %s", t.Status, t.Title)
		if t.Assignee != "" {
			line += DimStyle.Render(" @" + t.Assignee)
		}
		if t.RejectionNote != "" {
			line += WarnStyle.Render(" (rework)")
		}
		b.WriteString(NormalStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m DashboardModel) renderRisks() string {
	risks := m.store.Risks()
	open := 0
	for _, r := range risks {
		if !r.Resolved {
			open++
		}
	}

	var b strings.Builder
	b.WriteString(SectionStyle.Render(fmt.Sprintf("Risks (%d open)", open)))
	b.WriteString("\n")
	for _, r := range risks {
		if r.Resolved {
			continue
		}
		b.WriteString(WarnStyle.Render(fmt.Sprintf("  %s [%s]", r.Title, r.Severity)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m DashboardModel) renderTeam() string {
	team := m.store.Team()
	pending := m.store.PendingInvites()

	var b strings.Builder
	b.WriteString(SectionStyle.Render(fmt.Sprintf("Team (%d members, %d pending)", len(team), len(pending))))
	b.WriteString("\n")
	for _, mem := range team {
		label := fmt.Sprintf("  %s <%s> %s", mem.Name, mem.Email, mem.Role)
		if mem.Specialty != "" {
			label += DimStyle.Render(" · " + mem.Specialty)
		}
		b.WriteString(NormalStyle.Render(label))
		b.WriteString("\n")
	}
	for _, inv := range pending {
		b.WriteString(DimStyle.Render(fmt.Sprintf("  %s (invited, %s)", inv.Email, inv.Role)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m DashboardModel) renderFeed() string {
	var b strings.Builder
	b.WriteString(SectionStyle.Render("Activity"))
	b.WriteString("\n")
	for i, a := range m.store.Activities() {
		if i >= 10 {
			break
		}
		b.WriteString(DimStyle.Render(fmt.Sprintf("  %s %s", a.Agent, a.Action)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m DashboardModel) renderToast(n domain.Notification) string {
	width := m.width - 4
	if width < 20 {
		width = 40
	}
	body := fmt.Sprintf("%s\n%s", n.Title, wordwrap.String(n.Message, width))
	return ToastStyle.Render(body)
}

// fetchAll reloads the project and its lists through the store.
func (m DashboardModel) fetchAll() tea.Cmd {
	s, ctx := m.store, m.ctx
	return func() tea.Msg {
		s.FetchProject(ctx)
		return nil
	}
}

// waitForChange blocks on the store's change signal.
func (m DashboardModel) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{}
	}
}
