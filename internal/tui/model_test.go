package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plan"
	"github.com/verte-zerg/liftlog/internal/progress"
	"github.com/verte-zerg/liftlog/internal/stats"
)

const testDate = "2024-01-01"

func newTestModel(t *testing.T) (*Model, *progress.Store) {
	t.Helper()
	st := progress.NewStore()
	m := NewModel(plan.Default(), st, model.Config{
		Date:       testDate,
		ExportPath: filepath.Join(t.TempDir(), "workout_progress.json"),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, st
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func (m *Model) kpi() model.KPI {
	return stats.DayRatio(m.store, m.catalog, m.date, m.currentDay().Name)
}

func TestNewModelTouchesCurrentDay(t *testing.T) {
	m, st := newTestModel(t)
	day := m.currentDay()
	require.Equal(t, day.TotalSets(), st.Len())
	require.Equal(t, 0, m.kpi().CompletedSets)
}

func TestNewModelDefaultsToToday(t *testing.T) {
	m := NewModel(plan.Default(), progress.NewStore(), model.Config{})
	require.Equal(t, time.Now().Format(dateLayout), m.date)
	require.Equal(t, 0, m.dayIdx)
}

func TestToggleSet(t *testing.T) {
	m, st := newTestModel(t)
	day := m.currentDay().Name
	press(m, "down", "right", "space")
	require.True(t, st.Get(progress.NewKey(testDate, day, 1, 1)))
	require.Equal(t, 1, m.kpi().CompletedSets)

	press(m, "x")
	require.False(t, st.Get(progress.NewKey(testDate, day, 1, 1)))
}

func TestCursorClampsToSets(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "down", "l", "l", "l", "l", "l", "l")
	require.Equal(t, 3, m.setCursor, "chest press has 4 sets")
	press(m, "k")
	require.Equal(t, 0, m.setCursor, "warm-up has a single set")
	press(m, "k", "k")
	require.Equal(t, 0, m.exCursor)
}

func TestMarkAllDoneResetAndResetDay(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "down", "a")
	kpi := m.kpi()
	require.Equal(t, 4, kpi.CompletedSets)
	require.Equal(t, 1, kpi.ExercisesFullyDone)
	require.Equal(t, "Completed: Chest Press", m.status)

	press(m, "j", "a")
	require.Equal(t, 8, m.kpi().CompletedSets)

	press(m, "r")
	require.Equal(t, 4, m.kpi().CompletedSets)
	require.Equal(t, "Reset: Incline Press", m.status)

	press(m, "R")
	require.Equal(t, 0, m.kpi().CompletedSets)
	require.Contains(t, m.status, "Cleared all sets for Day 1 on 2024-01-01")
}

func TestDayAndDateNavigation(t *testing.T) {
	m, st := newTestModel(t)
	press(m, "]")
	require.Equal(t, 1, m.dayIdx)
	press(m, "[", "[")
	require.Equal(t, 4, m.dayIdx, "wraps to the last day")

	press(m, ">")
	require.Equal(t, "2024-01-02", m.date)
	press(m, "<", "<")
	require.Equal(t, "2023-12-31", m.date)

	m.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	press(m, "t")
	require.Equal(t, "2025-06-01", m.date)

	rows := stats.SessionSummary(st)
	require.Len(t, rows, 6, "every shown date/day pair is counted")
}

func TestExportAndImport(t *testing.T) {
	m, st := newTestModel(t)
	press(m, "down", "a")
	press(m, "e")
	require.Contains(t, m.status, "Exported")
	_, err := os.Stat(m.exportPath)
	require.NoError(t, err)

	fresh := NewModel(plan.Default(), progress.NewStore(), model.Config{Date: "2030-01-01", ExportPath: m.exportPath})
	fresh.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	press(fresh, "i")
	require.True(t, fresh.importMode)
	press(fresh, "enter")
	require.False(t, fresh.importMode)
	require.Contains(t, fresh.status, "Imported")
	for raw, done := range st.ExportAll() {
		k, err := progress.ParseKey(raw)
		require.NoError(t, err)
		require.Equal(t, done, fresh.store.Get(k))
	}
}

func TestImportInvalidStructure(t *testing.T) {
	m, st := newTestModel(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1, 2, 3]`), 0o644))
	before := st.ExportAll()

	m.importFrom(path)
	require.Equal(t, "Invalid file structure.", m.errMsg)
	require.Equal(t, before, st.ExportAll())

	m.importFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.Contains(t, m.errMsg, "Import failed")
}

func TestImportCancel(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "i", "esc")
	require.False(t, m.importMode)
	require.Empty(t, m.errMsg)
}

func TestViewShowsKPIsAndSummary(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "down", "a")
	out := m.View()
	for _, want := range []string{"Completed Sets", "4 / 21", "19%", "1 / 7", "Chest Press", "All sets done"} {
		require.Contains(t, out, want)
	}

	press(m, "tab")
	out = m.View()
	require.Contains(t, out, "Completion by date")
	require.Contains(t, out, "19.0")
	require.True(t, strings.Count(out, "\n") < 40)
}

func TestSummaryTableGrowsWithSessions(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	require.Len(t, m.summary.Rows(), 1)

	for i := 0; i < 9; i++ {
		press(m, ">")
	}
	require.Len(t, m.summary.Rows(), 10)
	require.GreaterOrEqual(t, m.summary.Height(), 10)

	press(m, "tab")
	view := m.View()
	require.Contains(t, view, "2024-01-01")
	require.Contains(t, view, "2024-01-10")
}

func TestViewBeforeSizeIsEmpty(t *testing.T) {
	m := NewModel(plan.Default(), progress.NewStore(), model.Config{Date: testDate})
	require.Equal(t, "", m.View())
}

func TestFocusShowsOneExercise(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "down", "f")
	content, _ := m.renderExercises()
	require.Contains(t, content, "Chest Press")
	require.NotContains(t, content, "Incline Press")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
