// Package model defines shared data structures.
package model

// Config defines tracker settings after merging flags and the config file.
type Config struct {
	PlanPath   string
	Date       string
	Day        string
	ExportPath string
	ImportPath string
}

// KPI summarizes one training day on one date.
type KPI struct {
	Date               string
	Day                string
	TotalSets          int
	CompletedSets      int
	ExercisesFullyDone int
	TotalExercises     int
	// CompletionPercent is rounded to a whole percent.
	CompletionPercent int
}

// SummaryRow aggregates every stored set sharing a date and day.
type SummaryRow struct {
	Date          string
	Day           string
	TotalSets     int
	CompletedSets int
	// CompletionPercent carries one decimal, e.g. 66.7.
	CompletionPercent float64
}
