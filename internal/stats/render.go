package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plan"
)

const (
	barFull             = "█"
	barEmpty            = "░"
	minBarWidth         = 10
	terminalWidthBackup = 80
)

// RenderKPIs prints the KPI block for one day.
func RenderKPIs(w io.Writer, kpi model.KPI) error {
	lines := []string{
		fmt.Sprintf("Date: %s", kpi.Date),
		fmt.Sprintf("Day: %s", plan.Day{Name: kpi.Day}.Short()),
		fmt.Sprintf("Completed Sets: %d / %d", kpi.CompletedSets, kpi.TotalSets),
		fmt.Sprintf("Completion: %d%%", kpi.CompletionPercent),
		fmt.Sprintf("Exercises Done: %d / %d", kpi.ExercisesFullyDone, kpi.TotalExercises),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSummary prints the per date/day summary table.
func RenderSummary(w io.Writer, rows []model.SummaryRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data yet. Check off a few sets to populate progress.")
		return err
	}
	headers := []string{"Date", "Day", "Total Sets", "Completed", "Completion %"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Date,
			r.Day,
			fmt.Sprintf("%d", r.TotalSets),
			fmt.Sprintf("%d", r.CompletedSets),
			fmt.Sprintf("%.1f", r.CompletionPercent),
		})
	}
	lines := formatTable(headers, tableRows, map[int]bool{2: true, 3: true, 4: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderBars prints one horizontal completion bar per summary row. A width
// of zero uses the terminal width.
func RenderBars(w io.Writer, rows []model.SummaryRow, width int) error {
	if len(rows) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	labels := make([]string, len(rows))
	labelWidth := 0
	for i, r := range rows {
		labels[i] = r.Date + " " + plan.Day{Name: r.Day}.Short()
		if lw := displayWidth(labels[i]); lw > labelWidth {
			labelWidth = lw
		}
	}
	// label, " │", bar, " 100.0%"
	barWidth := width - labelWidth - 2 - 7
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	if _, err := fmt.Fprintln(w, "Completion by date"); err != nil {
		return err
	}
	for i, r := range rows {
		line := fmt.Sprintf("%s │%s %5.1f%%", padCell(labels[i], labelWidth, false), Bar(r.CompletionPercent, barWidth), r.CompletionPercent)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// Bar renders a fixed-width bar filled to percent.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled)
}

// RenderPlan prints every day with its exercises.
func RenderPlan(w io.Writer, catalog *plan.Catalog) error {
	for i, name := range catalog.Days() {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, name); err != nil {
			return err
		}
		headers := []string{"#", "Exercise", "Sets", "Target"}
		rows := [][]string{}
		for j, ex := range catalog.Exercises(name) {
			rows = append(rows, []string{fmt.Sprintf("%d", j+1), ex.Name, fmt.Sprintf("%d", ex.Sets), ex.Reps})
		}
		for _, line := range formatTable(headers, rows, map[int]bool{0: true, 2: true}) {
			if _, err := fmt.Fprintln(w, "   "+line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
