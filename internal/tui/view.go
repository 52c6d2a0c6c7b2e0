package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plan"
	"github.com/verte-zerg/liftlog/internal/progress"
	"github.com/verte-zerg/liftlog/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#6366F1"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	exerciseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	cursorRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6366F1")).Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorSetStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#6366F1")).
			Padding(1, 2)
)

const setsPerRow = 5

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.importMode {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderImportModal())
	}
	body := fitLines(m.renderBody(), m.width, m.bodyHeight())
	return strings.Join([]string{m.renderHeader(), body, m.renderFooter()}, "\n")
}

// refresh rebuilds the tracker list and the summary table from the store.
func (m *Model) refresh() {
	content, cursorLine := m.renderExercises()
	m.tracker.SetContent(content)
	if cursorLine < m.tracker.YOffset {
		m.tracker.SetYOffset(cursorLine)
	} else if m.tracker.Height > 0 && cursorLine+2 >= m.tracker.YOffset+m.tracker.Height {
		m.tracker.SetYOffset(cursorLine + 3 - m.tracker.Height)
	}

	rows := stats.SessionSummary(m.store)
	m.summaryCount = len(rows)
	m.summary.SetColumns(summaryColumns(m.width))
	m.summary.SetRows(summaryRows(rows))
	m.resizeSummary()
}

func (m *Model) updateLayout() {
	m.tracker.Width = m.width
	m.tracker.Height = m.bodyHeight()
	m.summary.SetWidth(m.width)
	m.refresh()
}

// resizeSummary fits the table to its rows, capped at half the body.
func (m *Model) resizeSummary() {
	tableHeight := m.summaryCount + 2
	if limit := m.bodyHeight() / 2; tableHeight > limit {
		tableHeight = max(limit, 3)
	}
	m.summary.SetHeight(tableHeight)
}

func (m *Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderFooter())
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) renderHeader() string {
	tabs := m.renderTabs()
	kpi := stats.DayRatio(m.store, m.catalog, m.date, m.currentDay().Name)
	return lipgloss.JoinVertical(lipgloss.Left, tabs, renderKPICards(kpi, m.width), renderProgressLine(kpi, m.width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs)+1)
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	pill := mutedStyle.Render(fmt.Sprintf("  %s  %s", m.date, m.currentDay().Name))
	parts = append(parts, lipgloss.NewStyle().PaddingTop(1).Render(pill))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderKPICards(kpi model.KPI, width int) string {
	cards := []string{
		metricCard("Day", plan.Day{Name: kpi.Day}.Short()),
		metricCard("Completed Sets", fmt.Sprintf("%d / %d", kpi.CompletedSets, kpi.TotalSets)),
		metricCard("Completion", fmt.Sprintf("%d%%", kpi.CompletionPercent)),
		metricCard("Exercises Done", fmt.Sprintf("%d / %d", kpi.ExercisesFullyDone, kpi.TotalExercises)),
	}
	if width > 0 && width < 72 {
		return mutedStyle.Render(fmt.Sprintf("Sets %d/%d · %d%% · Exercises %d/%d",
			kpi.CompletedSets, kpi.TotalSets, kpi.CompletionPercent, kpi.ExercisesFullyDone, kpi.TotalExercises))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderProgressLine(kpi model.KPI, width int) string {
	barWidth := width - 16
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}
	bar := stats.Bar(float64(kpi.CompletionPercent), barWidth)
	return doneStyle.Render(bar) + mutedStyle.Render(fmt.Sprintf(" %d%% complete", kpi.CompletionPercent))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabProgress {
		return m.renderProgress()
	}
	return m.tracker.View()
}

// renderExercises returns the tracker list and the line of the cursor row.
func (m *Model) renderExercises() (string, int) {
	day := m.currentDay()
	var lines []string
	cursorLine := 0
	for i, ex := range day.Exercises {
		if m.focusOne && i != m.exCursor {
			continue
		}
		marker := "  "
		nameStyle := exerciseStyle
		if i == m.exCursor {
			marker = "› "
			nameStyle = cursorRowStyle
			cursorLine = len(lines)
		}
		badge := pendingStyle.Render("… In progress")
		if stats.ExerciseDone(m.store, m.date, day.Name, i, ex.Sets) {
			badge = doneStyle.Render("✓ All sets done")
		}
		title := fmt.Sprintf("%s%s  %s  %s",
			marker,
			nameStyle.Render(ex.Name),
			mutedStyle.Render(fmt.Sprintf("Sets: %d · Target: %s", ex.Sets, ex.Reps)),
			badge,
		)
		lines = append(lines, title)
		lines = append(lines, m.renderSetRows(day.Name, i, ex.Sets)...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n"), cursorLine
}

func (m *Model) renderSetRows(day string, exercise, sets int) []string {
	var rows []string
	var row []string
	for s := 0; s < sets; s++ {
		box := "[ ]"
		style := pendingStyle
		if m.store.Get(progress.NewKey(m.date, day, exercise, s)) {
			box = "[x]"
			style = doneStyle
		}
		cell := style.Render(fmt.Sprintf("%s Set %d", box, s+1))
		if exercise == m.exCursor && s == m.setCursor && m.activeTab == tabTracker {
			cell = cursorSetStyle.Render(fmt.Sprintf("%s Set %d", box, s+1))
		}
		row = append(row, cell)
		if len(row) == setsPerRow || s == sets-1 {
			rows = append(rows, "    "+strings.Join(row, "  "))
			row = nil
		}
	}
	return rows
}

func (m *Model) renderProgress() string {
	caption := mutedStyle.Render("This summary reflects only data from the current session (unless you import saved JSON).")
	rows := stats.SessionSummary(m.store)
	if len(rows) == 0 {
		return caption + "\n\nNo data yet. Check off a few sets to populate progress."
	}
	var chart bytes.Buffer
	if err := stats.RenderBars(&chart, rows, m.width); err != nil {
		chart.Reset()
		chart.WriteString(errorStyle.Render(err.Error()))
	}
	return strings.Join([]string{caption, "", m.summary.View(), "", strings.TrimRight(chart.String(), "\n")}, "\n")
}

func (m *Model) renderFooter() string {
	help := "Move: ←↑↓→  Toggle: space  All done: a  Reset: r  Reset day: R  Day: [ ]  Date: < > t  Focus: f  Export: e  Import: i  Tabs: tab  Quit: q"
	if m.activeTab == tabProgress {
		help = "Scroll: ↑↓  Day: [ ]  Date: < > t  Export: e  Import: i  Tabs: tab  Quit: q"
	}
	lines := []string{mutedStyle.Render(truncateLine(help, m.width))}
	switch {
	case m.errMsg != "":
		lines = append(lines, errorStyle.Render(m.errMsg))
	case m.status != "":
		lines = append(lines, statusStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderImportModal() string {
	content := strings.Join([]string{
		cardTitleStyle.Render("Import progress JSON (merges into current session)"),
		"",
		m.importInput.View(),
		"",
		mutedStyle.Render("enter: import  esc: cancel"),
	}, "\n")
	return modalStyle.Render(content)
}

func summaryColumns(width int) []table.Column {
	dayWidth := 28
	if width > 0 {
		// date + three numeric columns + cell padding
		dayWidth = clamp(width-10-10-9-12-5, 10, 52)
	}
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Day", Width: dayWidth},
		{Title: "Total Sets", Width: 10},
		{Title: "Completed", Width: 9},
		{Title: "Completion %", Width: 12},
	}
}

func summaryRows(rows []model.SummaryRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{
			r.Date,
			r.Day,
			fmt.Sprintf("%d", r.TotalSets),
			fmt.Sprintf("%d", r.CompletedSets),
			fmt.Sprintf("%.1f", r.CompletionPercent),
		})
	}
	return out
}

func summaryTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
