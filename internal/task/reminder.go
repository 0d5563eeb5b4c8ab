package task

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Notification kinds. Anything else is coerced to display.
const (
	NotifyDisplay = "display"
	NotifyEmail   = "email"
)

var (
	durDays    = regexp.MustCompile(`(\d+)d`)
	durHours   = regexp.MustCompile(`(\d+)h`)
	durMinutes = regexp.MustCompile(`(\d+)m`)
)

// ParseDuration interprets an expression in the form (x)d(y)h(z)m, with
// any of the three components optional. A string matching none of them
// yields zero.
func ParseDuration(expr string) time.Duration {
	expr = strings.ToLower(strings.TrimSpace(expr))
	var total time.Duration
	if m := durDays.FindStringSubmatch(expr); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += time.Duration(n) * 24 * time.Hour
	}
	if m := durHours.FindStringSubmatch(expr); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += time.Duration(n) * time.Hour
	}
	if m := durMinutes.FindStringSubmatch(expr); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += time.Duration(n) * time.Minute
	}
	return total
}

// Kind returns the reminder's notification kind.
func (r Reminder) Kind() string {
	if strings.ToLower(strings.TrimSpace(r.Notify)) == NotifyEmail {
		return NotifyEmail
	}
	return NotifyDisplay
}

// Relative reports whether the trigger spec is an offset expression
// rather than an absolute timestamp. Relative reminders are carried onto
// recurrence successors and re-resolved against the new start/due.
func (r Reminder) Relative() bool {
	_, err := ParseTimestamp(r.Remind)
	return err != nil
}

// Resolve computes the absolute trigger time for the reminder. Offset
// specs take the form start±DUR or due±DUR with DUR in (x)d(y)h(z)m; a
// zero or missing duration falls back to fallback. ok is false when the
// spec cannot be resolved (bad expression, or the referenced anchor is
// unset).
func (r Reminder) Resolve(start, due *Timestamp, fallback time.Duration) (time.Time, bool) {
	spec := strings.ToLower(strings.TrimSpace(r.Remind))
	if spec == "" {
		return time.Time{}, false
	}
	if ts, err := ParseTimestamp(spec); err == nil {
		return ts.Time, true
	}

	var anchor, offset string
	prior := false
	switch {
	case strings.Contains(spec, "-"):
		parts := strings.SplitN(spec, "-", 2)
		anchor, offset = parts[0], parts[1]
		prior = true
	case strings.Contains(spec, "+"):
		parts := strings.SplitN(spec, "+", 2)
		anchor, offset = parts[0], parts[1]
	default:
		return time.Time{}, false
	}

	var ref *Timestamp
	switch anchor {
	case "start":
		ref = start
	case "due":
		ref = due
	}
	if ref == nil {
		return time.Time{}, false
	}
	d := ParseDuration(offset)
	if d == 0 {
		d = fallback
	}
	if prior {
		return ref.Add(-d), true
	}
	return ref.Add(d), true
}
