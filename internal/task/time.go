package task

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Accepted timestamp layouts, tried in order. Records written by this
// program always use the first.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// Timestamp wraps time.Time with the lenient formats used in task files
// and filter expressions.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// ParseTimestamp parses s against the accepted layouts in local time.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// DateOnly reports whether the timestamp carries no clock time. Views
// treat a date-only start/due as the whole day.
func (ts Timestamp) DateOnly() bool {
	return ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0
}

// EndOfDay returns the last minute of the timestamp's calendar day.
func (ts Timestamp) EndOfDay() time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 23, 59, 59, 0, ts.Location())
}

// SameDay reports whether ts falls on the same calendar day as u.
func (ts Timestamp) SameDay(u time.Time) bool {
	y1, m1, d1 := ts.Date()
	y2, m2, d2 := u.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (ts Timestamp) String() string {
	return ts.Format(timeLayouts[0])
}

// MarshalYAML writes the canonical record layout.
func (ts Timestamp) MarshalYAML() (any, error) {
	return ts.Format(timeLayouts[0]), nil
}

// UnmarshalYAML accepts any of the lenient layouts, plus native YAML
// timestamps.
func (ts *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		var t time.Time
		if err2 := node.Decode(&t); err2 == nil {
			ts.Time = t
			return nil
		}
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON emits the canonical layout for query output.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.Format(timeLayouts[0]) + `"`), nil
}

// UnmarshalJSON accepts the lenient layouts.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
