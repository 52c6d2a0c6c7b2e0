// Package action expands bulk checkbox actions and applies them to a store.
package action

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/liftlog/internal/plan"
	"github.com/verte-zerg/liftlog/internal/progress"
)

// ErrOutOfRange is returned when an action names a day or exercise the plan
// does not have.
var ErrOutOfRange = errors.New("action out of range")

// Kind selects the scope of an action.
type Kind int

const (
	// ExerciseReset clears every set of one exercise.
	ExerciseReset Kind = iota
	// ExerciseComplete checks every set of one exercise.
	ExerciseComplete
	// DayReset writes Value to every set of a day.
	DayReset
)

func (k Kind) String() string {
	switch k {
	case ExerciseReset:
		return "exercise-reset"
	case ExerciseComplete:
		return "exercise-complete"
	case DayReset:
		return "day-reset"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is one bulk mutation. Exercise is ignored for DayReset.
type Action struct {
	Kind     Kind
	Date     string
	Day      string
	Exercise int
	Value    bool
}

// ResetExercise unchecks all sets of one exercise.
func ResetExercise(date, day string, exercise int) Action {
	return Action{Kind: ExerciseReset, Date: date, Day: day, Exercise: exercise, Value: false}
}

// CompleteExercise checks all sets of one exercise.
func CompleteExercise(date, day string, exercise int) Action {
	return Action{Kind: ExerciseComplete, Date: date, Day: day, Exercise: exercise, Value: true}
}

// ResetDay unchecks every set of a day.
func ResetDay(date, day string) Action {
	return Action{Kind: DayReset, Date: date, Day: day, Value: false}
}

// Keys expands the action scope into set keys in plan order.
func Keys(catalog *plan.Catalog, a Action) ([]progress.Key, error) {
	d, ok := catalog.Day(a.Day)
	if !ok {
		return nil, fmt.Errorf("%w: unknown day %q", ErrOutOfRange, a.Day)
	}
	if err := progress.NewKey(a.Date, a.Day, 0, 0).Validate(); err != nil {
		return nil, err
	}
	switch a.Kind {
	case DayReset:
		keys := make([]progress.Key, 0, d.TotalSets())
		for i, ex := range d.Exercises {
			keys = appendExercise(keys, a.Date, a.Day, i, ex.Sets)
		}
		return keys, nil
	case ExerciseReset, ExerciseComplete:
		if a.Exercise < 0 || a.Exercise >= len(d.Exercises) {
			return nil, fmt.Errorf("%w: exercise %d of %q (have %d)", ErrOutOfRange, a.Exercise, a.Day, len(d.Exercises))
		}
		return appendExercise(nil, a.Date, a.Day, a.Exercise, d.Exercises[a.Exercise].Sets), nil
	default:
		return nil, fmt.Errorf("unknown action kind %s", a.Kind)
	}
}

// Apply expands a and writes a.Value to every key with one SetMany call.
// It returns the number of keys written. On error st is not touched.
func Apply(st *progress.Store, catalog *plan.Catalog, a Action) (int, error) {
	keys, err := Keys(catalog, a)
	if err != nil {
		return 0, err
	}
	st.SetMany(keys, a.Value)
	return len(keys), nil
}

func appendExercise(keys []progress.Key, date, day string, exercise, sets int) []progress.Key {
	for s := 0; s < sets; s++ {
		keys = append(keys, progress.NewKey(date, day, exercise, s))
	}
	return keys
}
