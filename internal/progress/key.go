// Package progress holds per-set completion state.
package progress

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Namespace prefixes every exported key.
const Namespace = "chk"

const keySep = "::"

// ErrInvalidKey is returned by ParseKey for strings that are not set keys.
var ErrInvalidKey = errors.New("invalid set key")

// Key identifies one set checkbox. Date must not contain "::" since the
// export form reads the date from a single segment; see Validate.
type Key struct {
	Date     string
	Day      string
	Exercise int
	Set      int
}

// NewKey builds a key.
func NewKey(date, day string, exercise, set int) Key {
	return Key{Date: date, Day: day, Exercise: exercise, Set: set}
}

// String renders the key in its export form:
// chk::<date>::<day>::ex<exercise>::set<set>.
func (k Key) String() string {
	return Namespace + keySep + k.Date + keySep + k.Day + keySep +
		"ex" + strconv.Itoa(k.Exercise) + keySep + "set" + strconv.Itoa(k.Set)
}

// Validate reports whether k survives a String/ParseKey round trip.
func (k Key) Validate() error {
	switch {
	case k.Date == "" || strings.Contains(k.Date, keySep):
		return fmt.Errorf("%w: bad date %q", ErrInvalidKey, k.Date)
	case k.Day == "":
		return fmt.Errorf("%w: empty day", ErrInvalidKey)
	case k.Exercise < 0 || k.Set < 0:
		return fmt.Errorf("%w: negative index in %s", ErrInvalidKey, k)
	}
	return nil
}

// ParseKey parses the export form of a key. The leading tag is not checked,
// only the shape: tag, date, day, exN, setM. A day containing the separator
// is kept whole because exercise and set are read from the right.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, keySep)
	if len(parts) < 5 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	n := len(parts)
	exercise, ok := parseIndex(parts[n-2], "ex")
	if !ok {
		return Key{}, fmt.Errorf("%w: bad exercise segment in %q", ErrInvalidKey, s)
	}
	set, ok := parseIndex(parts[n-1], "set")
	if !ok {
		return Key{}, fmt.Errorf("%w: bad set segment in %q", ErrInvalidKey, s)
	}
	date := parts[1]
	day := strings.Join(parts[2:n-2], keySep)
	if parts[0] == "" || date == "" || day == "" {
		return Key{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidKey, s)
	}
	return Key{Date: date, Day: day, Exercise: exercise, Set: set}, nil
}

func parseIndex(segment, prefix string) (int, bool) {
	digits, ok := strings.CutPrefix(segment, prefix)
	if !ok || digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(digits)
	if err != nil || strconv.Itoa(v) != digits {
		// ex01 and ex1 would collapse onto one key.
		return 0, false
	}
	return v, true
}
