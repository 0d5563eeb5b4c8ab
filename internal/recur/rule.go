// Package recur interprets recurrence rule expressions and computes the
// occurrence set of a recurring task, including the next occurrence used
// to spawn a successor when an instance reaches a terminal status.
package recur

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

// ErrNoRule means the expression contained no recognized recurrence
// criteria. Such an rrule is inert.
var ErrNoRule = errors.New("no recurrence criteria")

// Freq is the base recurrence frequency.
type Freq int

const (
	FreqNone Freq = iota
	Minutely
	Hourly
	Daily
	Weekly
	Monthly
	Yearly
)

var freqNames = map[string]Freq{
	"minutely": Minutely,
	"hourly":   Hourly,
	"daily":    Daily,
	"weekly":   Weekly,
	"monthly":  Monthly,
	"yearly":   Yearly,
}

var weekdayCodes = map[string]time.Weekday{
	"su": time.Sunday,
	"mo": time.Monday,
	"tu": time.Tuesday,
	"we": time.Wednesday,
	"th": time.Thursday,
	"fr": time.Friday,
	"sa": time.Saturday,
}

// Rule is a parsed recurrence rule. All by* constraints are lists;
// values that failed validation during parsing have already been
// dropped.
type Rule struct {
	Dates      []time.Time
	Except     []time.Time
	Freq       Freq
	Count      int // 0 = unbounded (engine limit still applies)
	Until      *time.Time
	Interval   int
	ByMinute   []int
	ByHour     []int
	ByWeekday  []time.Weekday
	ByMonth    []time.Month
	ByMonthDay []int
	ByYearDay  []int
	ByWeekNo   []int
	BySetPos   []int
}

// Parse interprets a semicolon-separated key=value rule expression.
// Unknown keys and out-of-range values are dropped individually; an
// expression with no recognized criteria at all returns ErrNoRule.
func Parse(expr string) (*Rule, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return nil, ErrNoRule
	}
	r := &Rule{Interval: 1}
	recognized := false
	for _, item := range strings.Split(expr, ";") {
		key, value, found := strings.Cut(item, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "date":
			r.Dates = parseDateList(value)
		case "except":
			r.Except = parseDateList(value)
		case "freq":
			r.Freq = freqNames[value]
		case "count":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				r.Count = n
			}
		case "until":
			if ts, err := task.ParseTimestamp(value); err == nil {
				t := ts.Time
				r.Until = &t
			}
		case "interval":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				r.Interval = n
			}
		case "byminute":
			r.ByMinute = parseIntList(value, 0, 59)
		case "byhour":
			r.ByHour = parseIntList(value, 0, 23)
		case "byweekday":
			for _, code := range strings.Split(value, ",") {
				if wd, ok := weekdayCodes[strings.TrimSpace(code)]; ok {
					r.ByWeekday = append(r.ByWeekday, wd)
				}
			}
		case "bymonth":
			for _, n := range parseIntList(value, 1, 12) {
				r.ByMonth = append(r.ByMonth, time.Month(n))
			}
		case "bymonthday":
			r.ByMonthDay = parseIntList(value, 1, 31)
		case "byyearday":
			r.ByYearDay = parseIntList(value, 1, 366)
		case "byweekno":
			r.ByWeekNo = parseIntList(value, 1, 53)
		case "bysetpos":
			for _, part := range strings.Split(value, ",") {
				if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n != 0 {
					r.BySetPos = append(r.BySetPos, n)
				}
			}
		default:
			continue
		}
		recognized = true
	}
	if !recognized {
		return nil, ErrNoRule
	}
	if r.Freq == FreqNone && len(r.Dates) == 0 {
		return nil, fmt.Errorf("%w: no freq or date criteria", ErrNoRule)
	}
	return r, nil
}

func parseDateList(value string) []time.Time {
	var out []time.Time
	for _, part := range strings.Split(value, ",") {
		if ts, err := task.ParseTimestamp(part); err == nil {
			out = append(out, ts.Time)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func parseIntList(value string, lo, hi int) []int {
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < lo || n > hi {
			continue
		}
		out = append(out, n)
	}
	return out
}
