package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plan"
)

func TestRenderKPIs(t *testing.T) {
	var buf bytes.Buffer
	err := RenderKPIs(&buf, model.KPI{
		Date:               "2024-01-01",
		Day:                "Day 1 – Push (Chest, Shoulders, Triceps)",
		TotalSets:          21,
		CompletedSets:      7,
		ExercisesFullyDone: 2,
		TotalExercises:     7,
		CompletionPercent:  33,
	})
	require.NoError(t, err)
	out := buf.String()
	for _, want := range []string{"Day: Day 1\n", "Completed Sets: 7 / 21", "Completion: 33%", "Exercises Done: 2 / 7"} {
		require.Contains(t, out, want)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, []model.SummaryRow{
		{Date: "2024-01-01", Day: "Day 1", TotalSets: 2, CompletedSets: 1, CompletionPercent: 50},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Date        Day    Total Sets  Completed  Completion %", lines[0])
	require.Equal(t, "2024-01-01  Day 1           2          1          50.0", lines[1])
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, nil))
	require.Contains(t, buf.String(), "No data yet")
}

func TestRenderBars(t *testing.T) {
	var buf bytes.Buffer
	rows := []model.SummaryRow{
		{Date: "2024-01-01", Day: "Day 1 – Push", CompletionPercent: 50},
		{Date: "2024-01-02", Day: "Day 2 – Pull", CompletionPercent: 100},
	}
	require.NoError(t, RenderBars(&buf, rows, 40))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Completion by date", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "2024-01-01 Day 1 │"))
	require.True(t, strings.HasSuffix(lines[1], " 50.0%"))
	require.True(t, strings.HasSuffix(lines[2], "100.0%"))
	// 40 - 16 label - 2 - 7 = 15 cells
	require.Equal(t, 7, strings.Count(lines[1], barFull))
	require.Equal(t, 15, strings.Count(lines[2], barFull))
}

func TestBar(t *testing.T) {
	require.Equal(t, "", Bar(50, 0))
	require.Equal(t, "█████░░░░░", Bar(50, 10))
	require.Equal(t, "░░░░", Bar(-5, 4))
	require.Equal(t, "████", Bar(250, 4))
}

func TestRenderPlan(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlan(&buf, plan.Default()))
	out := buf.String()
	require.Contains(t, out, "1. Day 1 – Push (Chest, Shoulders, Triceps)")
	require.Contains(t, out, "Cycle Intervals")
	require.Contains(t, out, "20s sprint / 40s easy")
}
