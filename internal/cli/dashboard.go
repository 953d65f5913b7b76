package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// Dashboard panel indices.
const (
	panelOverview = iota
	panelStatus
	panelPriority
	panelActivity
	panelCount
)

// barWidth is the width in cells of the dashboard's horizontal bars.
const barWidth = 24

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	stats    models.TaskStatistics
	activity *activitySnapshot
	recent   []models.Task

	// State.
	loading bool
	err     error
}

type activitySnapshot struct {
	created   int
	updated   int
	completed int
	removed   int
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	stats    models.TaskStatistics
	activity *activitySnapshot
	recent   []models.Task
	err      error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(14).
			Align(lipgloss.Center)

	statusPending    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	priorityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	priorityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	priorityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelOverview,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.stats = msg.stats
		m.activity = msg.activity
		m.recent = msg.recent
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" datawork ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	panels := []string{
		m.renderOverviewPanel(),
		m.renderStatusPanel(),
		m.renderPriorityPanel(),
		m.renderActivityPanel(),
	}

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Two columns of two panels.
		colWidth := availableWidth/2 - 4
		for i := range panels {
			panels[i] = m.applyPanelStyle(i, panels[i], colWidth)
		}
		left := lipgloss.JoinVertical(lipgloss.Left, panels[panelOverview], panels[panelPriority])
		right := lipgloss.JoinVertical(lipgloss.Left, panels[panelStatus], panels[panelActivity])
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		panelWidth := max(availableWidth-4, 20)
		for i := range panels {
			panels[i] = m.applyPanelStyle(i, panels[i], panelWidth)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, panels...)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderOverviewPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Overview"))
	b.WriteString("\n")

	s := m.stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total", s.Total, lipgloss.NewStyle()),
		statCard("Pending", s.Pending, statusPending),
		statCard("In progress", s.InProgress, statusInProgress),
		statCard("Completed", s.Completed, statusCompleted),
	)
	b.WriteString(cards)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Completion %s %3d%%\n", progressBar(s.CompletionPercentage, barWidth, statusCompleted), s.CompletionPercentage))
	b.WriteString(fmt.Sprintf("  Created today: %d   this week: %d\n", s.CreatedToday, s.CreatedThisWeek))

	if len(m.recent) > 0 {
		b.WriteString("\n  Recent:\n")
		for _, t := range m.recent {
			b.WriteString(fmt.Sprintf("    %s %s\n", styleForStatus(t.Status).Render("●"), t.Title))
		}
	}
	return b.String()
}

func (m dashboardModel) renderStatusPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("By status"))
	b.WriteString("\n")

	if m.stats.Total == 0 {
		b.WriteString("  No tasks yet.")
		return b.String()
	}

	counts := map[models.TaskStatus]int{
		models.StatusPending:    m.stats.Pending,
		models.StatusInProgress: m.stats.InProgress,
		models.StatusCompleted:  m.stats.Completed,
	}
	for _, status := range models.AllStatuses {
		b.WriteString(countBar(string(status), counts[status], m.stats.Total, styleForStatus(status)))
	}
	return b.String()
}

func (m dashboardModel) renderPriorityPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("By priority"))
	b.WriteString("\n")

	if m.stats.Total == 0 {
		b.WriteString("  No tasks yet.")
		return b.String()
	}

	counts := map[models.Priority]int{
		models.PriorityHigh:   m.stats.ByPriority.High,
		models.PriorityMedium: m.stats.ByPriority.Medium,
		models.PriorityLow:    m.stats.ByPriority.Low,
	}
	for _, p := range models.AllPriorities {
		b.WriteString(countBar(string(p), counts[p], m.stats.Total, styleForPriority(p)))
	}
	return b.String()
}

func (m dashboardModel) renderActivityPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Activity (7d)"))
	b.WriteString("\n")

	if m.activity == nil {
		b.WriteString("  No activity recorded.")
		return b.String()
	}

	lines := []struct {
		label string
		value int
	}{
		{"Created", m.activity.created},
		{"Updated", m.activity.updated},
		{"Completed", m.activity.completed},
		{"Removed", m.activity.removed},
	}
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", l.label, l.value))
	}
	return b.String()
}

func statCard(label string, value int, style lipgloss.Style) string {
	return cardStyle.Render(style.Bold(true).Render(fmt.Sprintf("%d", value)) + "\n" + label)
}

// progressBar renders pct (0-100) as a bar of width cells.
func progressBar(pct, width int, style lipgloss.Style) string {
	pct = max(0, min(100, pct))
	filled := pct * width / 100
	return style.Render(strings.Repeat("█", filled)) + helpStyle.Render(strings.Repeat("░", width-filled))
}

// countBar renders one labelled bar whose length is count's share of total.
func countBar(label string, count, total int, style lipgloss.Style) string {
	pct := 0
	if total > 0 {
		pct = count * 100 / total
	}
	return fmt.Sprintf("  %-12s %s %d\n", label, progressBar(pct, barWidth, style), count)
}

func styleForStatus(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusPending:
		return statusPending
	case models.StatusInProgress:
		return statusInProgress
	case models.StatusCompleted:
		return statusCompleted
	default:
		return lipgloss.NewStyle()
	}
}

func styleForPriority(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return priorityHigh
	case models.PriorityMedium:
		return priorityMedium
	case models.PriorityLow:
		return priorityLow
	default:
		return lipgloss.NewStyle()
	}
}

// recentLimit is how many of the newest tasks the overview lists.
const recentLimit = 5

func loadData() tea.Msg {
	var result dataLoadedMsg
	ctx := context.Background()

	if TaskRepo != nil {
		result.stats = TaskRepo.Statistics(ctx)
		recent := TaskRepo.List(ctx, models.TaskFilter{})
		if len(recent) > recentLimit {
			recent = recent[:recentLimit]
		}
		result.recent = recent
	}

	if MetricsCalc != nil {
		since := time.Now().UTC().AddDate(0, 0, -7)
		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.activity = &activitySnapshot{
			created:   metrics.TasksCreated,
			updated:   metrics.TasksUpdated,
			completed: metrics.TasksCompleted,
			removed:   metrics.TasksRemoved,
		}
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard of task statistics",
	Long: `Launch an interactive terminal dashboard showing task counts, completion
progress, breakdowns by status and priority, and recent activity.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
