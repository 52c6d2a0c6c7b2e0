// Package tui provides the Bubble Tea workout tracker.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/liftlog/internal/action"
	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plan"
	"github.com/verte-zerg/liftlog/internal/progress"
)

const (
	tabTracker = iota
	tabProgress
)

const dateLayout = "2006-01-02"

// Model implements the tracker UI. Every key press is one turn: the mutation
// is applied to the store before the next View derives KPIs from it.
type Model struct {
	catalog    *plan.Catalog
	store      *progress.Store
	exportPath string
	now        func() time.Time

	date   string
	dayIdx int

	tabs      []string
	activeTab int

	exCursor  int
	setCursor int
	focusOne  bool

	tracker      viewport.Model
	summary      table.Model
	summaryCount int

	importMode  bool
	importInput textinput.Model

	status string
	errMsg string

	width  int
	height int
}

// NewModel constructs the tracker for an already loaded catalog and store.
// cfg.Day must be a full day name (or empty for the first day) and cfg.Date
// an ISO date (or empty for today).
func NewModel(catalog *plan.Catalog, st *progress.Store, cfg model.Config) *Model {
	m := &Model{
		catalog:    catalog,
		store:      st,
		exportPath: cfg.ExportPath,
		now:        time.Now,
		date:       cfg.Date,
		tabs:       []string{"Tracker", "Progress (this session)"},
	}
	if m.date == "" {
		m.date = m.now().Format(dateLayout)
	}
	if idx := catalog.IndexOf(cfg.Day); idx >= 0 {
		m.dayIdx = idx
	}
	m.tracker = viewport.New(0, 0)
	m.summary = table.New(table.WithColumns(summaryColumns(0)), table.WithHeight(1))
	m.summary.SetStyles(summaryTableStyles())
	m.importInput = newPathInput("Path: ")
	m.touchDay()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.importMode {
			return m.updateImport(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "e":
			m.export()
			return m, nil
		case "i":
			return m.startImport()
		case "[":
			m.moveDay(-1)
			return m, nil
		case "]":
			m.moveDay(1)
			return m, nil
		case "<", ",":
			m.shiftDate(-1)
			return m, nil
		case ">", ".":
			m.shiftDate(1)
			return m, nil
		case "t":
			m.setDate(m.now().Format(dateLayout))
			return m, nil
		}
		if m.activeTab == tabProgress {
			var cmd tea.Cmd
			m.summary, cmd = m.summary.Update(msg)
			return m, cmd
		}
		return m.updateTracker(msg)
	}
	return m, nil
}

func (m *Model) updateTracker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	day := m.currentDay()
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1, 0)
	case "down", "j":
		m.moveCursor(1, 0)
	case "left", "h":
		m.moveCursor(0, -1)
	case "right", "l":
		m.moveCursor(0, 1)
	case " ", "x", "enter":
		key := progress.NewKey(m.date, day.Name, m.exCursor, m.setCursor)
		m.store.Set(key, !m.store.Get(key))
		m.clearMessages()
	case "a":
		ex := day.Exercises[m.exCursor]
		m.apply(action.CompleteExercise(m.date, day.Name, m.exCursor), "Completed: "+ex.Name)
	case "r":
		ex := day.Exercises[m.exCursor]
		m.apply(action.ResetExercise(m.date, day.Name, m.exCursor), "Reset: "+ex.Name)
	case "R":
		m.apply(action.ResetDay(m.date, day.Name), fmt.Sprintf("Cleared all sets for %s on %s", day.Short(), m.date))
	case "f":
		m.focusOne = !m.focusOne
	case "g", "home":
		m.exCursor, m.setCursor = 0, 0
	case "G", "end":
		m.exCursor, m.setCursor = len(day.Exercises)-1, 0
	default:
		var cmd tea.Cmd
		m.tracker, cmd = m.tracker.Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m *Model) currentDay() plan.Day {
	return m.catalog.DayAt(m.dayIdx)
}

func (m *Model) apply(a action.Action, okMsg string) {
	n, err := action.Apply(m.store, m.catalog, a)
	if err != nil {
		logrus.WithError(err).WithField("kind", a.Kind.String()).Error("failed to apply action")
		m.setError(err.Error())
		return
	}
	logrus.WithFields(logrus.Fields{
		"kind": a.Kind.String(),
		"date": a.Date,
		"day":  a.Day,
		"keys": n,
	}).Debug("applied action")
	m.setStatus(okMsg)
}

// touchDay creates the current day's keys as unchecked so the session
// summary counts every set that has been shown.
func (m *Model) touchDay() {
	keys, err := action.Keys(m.catalog, action.ResetDay(m.date, m.currentDay().Name))
	if err != nil {
		logrus.WithError(err).Warn("failed to expand day")
		return
	}
	m.store.Ensure(keys)
}

func (m *Model) moveCursor(dEx, dSet int) {
	day := m.currentDay()
	m.exCursor = clamp(m.exCursor+dEx, 0, len(day.Exercises)-1)
	m.setCursor = clamp(m.setCursor+dSet, 0, day.Exercises[m.exCursor].Sets-1)
}

func (m *Model) moveDay(delta int) {
	count := m.catalog.Len()
	m.dayIdx = (m.dayIdx + delta + count) % count
	m.exCursor, m.setCursor = 0, 0
	m.clearMessages()
	m.touchDay()
	m.refresh()
}

func (m *Model) shiftDate(days int) {
	t, err := time.Parse(dateLayout, m.date)
	if err != nil {
		m.setError(fmt.Sprintf("invalid date %q", m.date))
		return
	}
	m.setDate(t.AddDate(0, 0, days).Format(dateLayout))
}

func (m *Model) setDate(date string) {
	m.date = date
	m.clearMessages()
	m.touchDay()
	m.refresh()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabProgress {
		m.summary.Focus()
	} else {
		m.summary.Blur()
	}
}

func (m *Model) export() {
	if m.store.Len() == 0 {
		m.setStatus("No progress yet to export.")
		return
	}
	if err := progress.ExportFile(m.exportPath, m.store); err != nil {
		logrus.WithError(err).Error("export failed")
		m.setError(fmt.Sprintf("Export failed: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("Exported %d sets to %s", m.store.Len(), m.exportPath))
}

func (m *Model) startImport() (tea.Model, tea.Cmd) {
	m.importMode = true
	m.importInput.SetValue(m.exportPath)
	m.importInput.CursorEnd()
	return m, m.importInput.Focus()
}

func (m *Model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.importMode = false
		m.importInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.importMode = false
		m.importInput.Blur()
		m.importFrom(m.importInput.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m *Model) importFrom(path string) {
	res, err := progress.ImportFile(path, m.store)
	switch {
	case errors.Is(err, progress.ErrInvalidFormat):
		m.setError("Invalid file structure.")
	case err != nil:
		m.setError(fmt.Sprintf("Import failed: %v", err))
	default:
		msg := fmt.Sprintf("Imported %d sets", res.Accepted)
		if res.Skipped > 0 {
			msg += fmt.Sprintf(" (%d skipped)", res.Skipped)
		}
		m.setStatus(msg)
	}
	m.refresh()
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.errMsg = ""
}

func (m *Model) setError(msg string) {
	m.errMsg = msg
	m.status = ""
}

func (m *Model) clearMessages() {
	m.status = ""
	m.errMsg = ""
}

func newPathInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
