// Package stats derives completion metrics from progress state and renders them.
package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plan"
	"github.com/verte-zerg/liftlog/internal/progress"
)

// Reader is the read side of a progress store.
type Reader interface {
	Get(key progress.Key) bool
}

// Ranger iterates every stored entry.
type Ranger interface {
	Range(fn func(progress.Key, bool))
}

// DayRatio computes the KPI for one day on one date. It only reads from st.
// An unknown day yields a zero KPI.
func DayRatio(st Reader, catalog *plan.Catalog, date, day string) model.KPI {
	kpi := model.KPI{Date: date, Day: day}
	exercises := catalog.Exercises(day)
	kpi.TotalExercises = len(exercises)
	for i, ex := range exercises {
		kpi.TotalSets += ex.Sets
		done := true
		for s := 0; s < ex.Sets; s++ {
			if st.Get(progress.NewKey(date, day, i, s)) {
				kpi.CompletedSets++
			} else {
				done = false
			}
		}
		if done {
			kpi.ExercisesFullyDone++
		}
	}
	if kpi.TotalSets > 0 {
		kpi.CompletionPercent = int(math.Round(float64(kpi.CompletedSets) / float64(kpi.TotalSets) * 100))
	}
	return kpi
}

// ExerciseDone reports whether every set of one exercise is checked.
func ExerciseDone(st Reader, date, day string, exercise, sets int) bool {
	for s := 0; s < sets; s++ {
		if !st.Get(progress.NewKey(date, day, exercise, s)) {
			return false
		}
	}
	return true
}

// SessionSummary groups every stored entry by date and day. Rows are sorted
// by date, then day.
func SessionSummary(st Ranger) []model.SummaryRow {
	type group struct {
		date, day string
	}
	groups := map[group]*model.SummaryRow{}
	st.Range(func(k progress.Key, done bool) {
		g := group{date: k.Date, day: k.Day}
		row, ok := groups[g]
		if !ok {
			row = &model.SummaryRow{Date: k.Date, Day: k.Day}
			groups[g] = row
		}
		row.TotalSets++
		if done {
			row.CompletedSets++
		}
	})

	rows := make([]model.SummaryRow, 0, len(groups))
	for _, row := range groups {
		row.CompletionPercent = summaryPercent(row.CompletedSets, row.TotalSets)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date == rows[j].Date {
			return rows[i].Day < rows[j].Day
		}
		return rows[i].Date < rows[j].Date
	})
	return rows
}

// summaryPercent rounds the ratio to three decimals before scaling, so the
// percentage carries one decimal.
func summaryPercent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
