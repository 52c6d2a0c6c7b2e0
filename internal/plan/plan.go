// Package plan defines the workout plan catalog.
package plan

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default_plan.yaml
var defaultPlanYAML []byte

// ErrUnknownDay is returned when a day reference does not match the catalog.
var ErrUnknownDay = errors.New("unknown day")

var planValidate = validator.New()

// Exercise is one entry of a training day.
type Exercise struct {
	Name string `yaml:"name" validate:"required"`
	Sets int    `yaml:"sets" validate:"gte=1"`
	Reps string `yaml:"reps"`
}

// Day is a named, ordered list of exercises.
type Day struct {
	Name      string     `yaml:"name" validate:"required"`
	Exercises []Exercise `yaml:"exercises" validate:"required,min=1,dive"`
}

// Short returns the label before the first dash, e.g. "Day 1".
func (d Day) Short() string {
	name := d.Name
	for _, sep := range []string{"–", " - "} {
		if idx := strings.Index(name, sep); idx > 0 {
			name = name[:idx]
			break
		}
	}
	return strings.TrimSpace(name)
}

// TotalSets sums the target sets of every exercise.
func (d Day) TotalSets() int {
	total := 0
	for _, ex := range d.Exercises {
		total += ex.Sets
	}
	return total
}

type planFile struct {
	Days []Day `yaml:"days" validate:"required,min=1,unique=Name,dive"`
}

// Catalog is an immutable, ordered set of training days.
type Catalog struct {
	days  []Day
	index map[string]int
}

// Default returns the built-in five day program.
func Default() *Catalog {
	c, err := Parse(defaultPlanYAML)
	if err != nil {
		panic(fmt.Sprintf("plan: built-in plan is invalid: %v", err))
	}
	return c
}

// Load reads and validates a YAML plan file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML plan document.
func Parse(data []byte) (*Catalog, error) {
	var pf planFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	if err := planValidate.Struct(pf); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return New(pf.Days), nil
}

// New builds a catalog from days in display order. Callers own validation.
func New(days []Day) *Catalog {
	c := &Catalog{
		days:  make([]Day, len(days)),
		index: make(map[string]int, len(days)),
	}
	for i, d := range days {
		exercises := make([]Exercise, len(d.Exercises))
		copy(exercises, d.Exercises)
		c.days[i] = Day{Name: d.Name, Exercises: exercises}
		c.index[d.Name] = i
	}
	return c
}

// Len returns the number of days.
func (c *Catalog) Len() int {
	return len(c.days)
}

// Days returns the day names in display order.
func (c *Catalog) Days() []string {
	names := make([]string, len(c.days))
	for i, d := range c.days {
		names[i] = d.Name
	}
	return names
}

// Exercises returns a copy of the exercises for day, or nil for an unknown day.
func (c *Catalog) Exercises(day string) []Exercise {
	d, ok := c.Day(day)
	if !ok {
		return nil
	}
	return d.Exercises
}

// Day looks a day up by its full name.
func (c *Catalog) Day(name string) (Day, bool) {
	i, ok := c.index[name]
	if !ok {
		return Day{}, false
	}
	return c.DayAt(i), true
}

// DayAt returns the i-th day. It panics when i is out of range.
func (c *Catalog) DayAt(i int) Day {
	d := c.days[i]
	exercises := make([]Exercise, len(d.Exercises))
	copy(exercises, d.Exercises)
	return Day{Name: d.Name, Exercises: exercises}
}

// IndexOf returns the position of day, or -1.
func (c *Catalog) IndexOf(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// Resolve maps user input (1-based number, full name or short label such as
// "Day 3") to a full day name.
func (c *Catalog) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrUnknownDay)
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(c.days) {
			return "", fmt.Errorf("%w: %d (have %d days)", ErrUnknownDay, n, len(c.days))
		}
		return c.days[n-1].Name, nil
	}
	if _, ok := c.index[ref]; ok {
		return ref, nil
	}
	for _, d := range c.days {
		if strings.EqualFold(d.Short(), ref) {
			return d.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, ref)
}
