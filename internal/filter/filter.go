// Package filter compiles search/query expressions into predicate trees
// evaluated against task records. The same compiled filter serves list,
// search, query, and export paths.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

// Numeric bounds used when a range endpoint is open.
const (
	priorityMin = 1
	priorityMax = 1000
	percentMin  = 0
	percentMax  = 100
)

// Open date-range endpoints. Bare values never reach these; only the ~
// operator does.
var (
	dateOrigin  = time.Date(1969, time.January, 1, 0, 0, 0, 0, time.UTC)
	dateHorizon = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// Filter is a compiled expression: an include term and an optional
// exclude term, each a conjunction of clauses. A record matches when it
// satisfies every include clause and, if an exclude term is present,
// fails it.
type Filter struct {
	include []clause
	exclude []clause
}

type clause interface {
	match(t *task.Task) bool
}

// Parse compiles a filter expression. Parsing never fails: malformed
// values produce clauses that match nothing, and a clause with an
// unrecognized field name degrades to a description substring match, so
// an ad-hoc expression can never abort a list or search.
func Parse(expr string) *Filter {
	expr = strings.ToLower(strings.TrimSpace(expr))
	include, excludeExpr, _ := strings.Cut(expr, "%")
	f := &Filter{include: parseTerm(include)}
	if excludeExpr != "" {
		f.exclude = parseTerm(excludeExpr)
	}
	return f
}

// Match evaluates the compiled filter against one record.
func (f *Filter) Match(t *task.Task) bool {
	for _, c := range f.include {
		if !c.match(t) {
			return false
		}
	}
	if len(f.exclude) == 0 {
		return true
	}
	for _, c := range f.exclude {
		if !c.match(t) {
			return true
		}
	}
	return false
}

var typedFields = map[string]bool{
	"uid": true, "alias": true, "description": true, "location": true,
	"tags": true, "status": true, "parent": true, "priority": true,
	"percent": true, "project": true, "start": true, "due": true,
	"started": true, "completed": true, "notes": true,
}

// parseTerm splits a term on commas into clauses. A fragment without an
// "=" immediately following a tags clause extends that clause's value
// list, which is how "tags=a,b" expresses an all-of match.
func parseTerm(term string) []clause {
	term = strings.TrimSpace(term)
	if term == "" || term == "any" {
		return nil
	}
	var clauses []clause
	var lastTags *tagClause
	for _, frag := range strings.Split(term, ",") {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		field, value, found := strings.Cut(frag, "=")
		field = strings.TrimSpace(field)
		if !found || !typedFields[field] {
			if !found && lastTags != nil && !lastTags.any {
				lastTags.values = append(lastTags.values, frag)
				continue
			}
			clauses = append(clauses, substringClause{field: "description", value: frag})
			lastTags = nil
			continue
		}
		value = strings.TrimSpace(value)
		c := buildClause(field, value)
		clauses = append(clauses, c)
		if tc, ok := c.(*tagClause); ok {
			lastTags = tc
		} else {
			lastTags = nil
		}
	}
	return clauses
}

func buildClause(field, value string) clause {
	switch field {
	case "uid", "alias", "parent":
		return exactClause{field: field, value: value}
	case "status":
		return statusClause{values: strings.Split(value, "+")}
	case "tags":
		tc := &tagClause{}
		if strings.Contains(value, "+") {
			tc.any = true
			tc.values = strings.Split(value, "+")
		} else {
			tc.values = []string{value}
		}
		return tc
	case "priority":
		lo, hi, ok := parseIntRange(value, priorityMin, priorityMax)
		return numberClause{field: field, lo: lo, hi: hi, ok: ok}
	case "percent":
		lo, hi, ok := parseIntRange(value, percentMin, percentMax)
		return numberClause{field: field, lo: lo, hi: hi, ok: ok}
	case "start", "due", "started", "completed":
		lo, hi, ok := parseDateRange(value)
		return dateClause{field: field, lo: lo, hi: hi, ok: ok}
	default:
		return substringClause{field: field, value: value}
	}
}

// substringClause matches case-insensitive substrings on free-text
// fields.
type substringClause struct {
	field, value string
}

func (c substringClause) match(t *task.Task) bool {
	var have string
	switch c.field {
	case "description":
		have = t.Description
	case "location":
		have = t.Location
	case "project":
		have = t.Project
	case "notes":
		have = t.Notes
	}
	if have == "" {
		return false
	}
	return strings.Contains(strings.ToLower(have), c.value)
}

// exactClause matches identifier fields exactly.
type exactClause struct {
	field, value string
}

func (c exactClause) match(t *task.Task) bool {
	var have string
	switch c.field {
	case "uid":
		have = t.UID
	case "alias":
		have = t.Alias
	case "parent":
		have = t.Parent
	}
	if have == "" {
		return false
	}
	return strings.EqualFold(have, c.value)
}

// statusClause matches any of the +-joined status values.
type statusClause struct {
	values []string
}

func (c statusClause) match(t *task.Task) bool {
	if t.Status == "" {
		return false
	}
	for _, v := range c.values {
		if strings.EqualFold(t.Status, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

// tagClause matches all listed tags by default, or any of them when the
// values were +-joined.
type tagClause struct {
	values []string
	any    bool
}

func (c *tagClause) match(t *task.Task) bool {
	if len(t.Tags) == 0 {
		return false
	}
	if c.any {
		for _, v := range c.values {
			if t.HasTag(v) {
				return true
			}
		}
		return false
	}
	for _, v := range c.values {
		if !t.HasTag(v) {
			return false
		}
	}
	return true
}

// numberClause matches a numeric field within an inclusive range. ok is
// false when the value failed to parse; such a clause matches nothing.
type numberClause struct {
	field  string
	lo, hi int
	ok     bool
}

func (c numberClause) match(t *task.Task) bool {
	if !c.ok {
		return false
	}
	var have *int
	switch c.field {
	case "priority":
		have = t.Priority
	case "percent":
		have = t.Percent
	}
	if have == nil {
		return false
	}
	return c.lo <= *have && *have <= c.hi
}

// dateClause matches a timestamp field within an inclusive range.
type dateClause struct {
	field  string
	lo, hi time.Time
	ok     bool
}

func (c dateClause) match(t *task.Task) bool {
	if !c.ok {
		return false
	}
	var have *task.Timestamp
	switch c.field {
	case "start":
		have = t.Start
	case "due":
		have = t.Due
	case "started":
		have = t.Started
	case "completed":
		have = t.Completed
	}
	if have == nil {
		return false
	}
	return !have.Before(c.lo) && !have.After(c.hi)
}

// parseIntRange interprets the shared range operator on a numeric value:
// bare N is exact, trailing ~ is at-most, leading ~ is at-least, and a~b
// is an inclusive range. The same interpretation serves include and
// exclude terms.
func parseIntRange(value string, min, max int) (lo, hi int, ok bool) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "~"):
		n, err := strconv.Atoi(value[1:])
		if err != nil {
			return 0, 0, false
		}
		return n, max, true
	case strings.HasSuffix(value, "~"):
		n, err := strconv.Atoi(value[:len(value)-1])
		if err != nil {
			return 0, 0, false
		}
		return min, n, true
	case strings.Contains(value, "~"):
		a, b, _ := strings.Cut(value, "~")
		na, errA := strconv.Atoi(strings.TrimSpace(a))
		nb, errB := strconv.Atoi(strings.TrimSpace(b))
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		if na > nb {
			na, nb = nb, na
		}
		return na, nb, true
	default:
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	}
}

// parseDateRange interprets the same range operator over timestamps. A
// bare date spans its calendar day; a value with a clock time is exact.
func parseDateRange(value string) (lo, hi time.Time, ok bool) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "~"):
		ts, err := task.ParseTimestamp(value[1:])
		if err != nil {
			return lo, hi, false
		}
		return ts.Time, dateHorizon, true
	case strings.HasSuffix(value, "~"):
		ts, err := task.ParseTimestamp(value[:len(value)-1])
		if err != nil {
			return lo, hi, false
		}
		return dateOrigin, dateUpper(ts), true
	case strings.Contains(value, "~"):
		a, b, _ := strings.Cut(value, "~")
		tsA, errA := task.ParseTimestamp(a)
		tsB, errB := task.ParseTimestamp(b)
		if errA != nil || errB != nil {
			return lo, hi, false
		}
		if tsA.After(tsB.Time) {
			tsA, tsB = tsB, tsA
		}
		return tsA.Time, dateUpper(tsB), true
	default:
		ts, err := task.ParseTimestamp(value)
		if err != nil {
			return lo, hi, false
		}
		return ts.Time, dateUpper(ts), true
	}
}

// dateUpper widens a date-only endpoint to the end of its day so a bare
// date matches any time within that day.
func dateUpper(ts task.Timestamp) time.Time {
	if ts.DateOnly() {
		return ts.EndOfDay()
	}
	return ts.Time
}
