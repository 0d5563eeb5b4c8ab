package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

// Predicate is a compiled view: a test over one record.
type Predicate func(t *task.Task) bool

// View names.
const (
	ViewOpen   = "open"
	ViewAll    = "all"
	ViewDone   = "done"
	ViewNosubs = "nosubs"
	ViewLate   = "late"
	ViewSoon   = "soon"
	ViewToday  = "today"
)

// ResolveView translates a named view into a predicate parameterized by
// now. daysSoon is the rolling window for the soon view.
func ResolveView(name string, now time.Time, daysSoon int) (Predicate, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ViewOpen:
		return isOpen, nil
	case ViewAll:
		return func(*task.Task) bool { return true }, nil
	case ViewDone:
		return func(t *task.Task) bool { return t.Status == task.StatusDone }, nil
	case ViewNosubs:
		return func(t *task.Task) bool { return isOpen(t) && t.Parent == "" }, nil
	case ViewLate:
		return func(t *task.Task) bool { return isLate(t, now) }, nil
	case ViewSoon:
		if daysSoon < 1 {
			daysSoon = 1
		}
		horizon := now.AddDate(0, 0, daysSoon)
		return func(t *task.Task) bool { return isUpcoming(t, now, horizon) }, nil
	case ViewToday:
		return func(t *task.Task) bool { return isToday(t, now) }, nil
	}
	return nil, fmt.Errorf("unknown view %q", name)
}

// WithProject narrows a predicate to one project (exact, case-folded).
func WithProject(p Predicate, project string) Predicate {
	project = strings.ToLower(strings.TrimSpace(project))
	if project == "" {
		return p
	}
	return func(t *task.Task) bool {
		return p(t) && t.Project == project
	}
}

func isOpen(t *task.Task) bool {
	return t.Status != task.StatusDone
}

// isLate checks for a start date passed while still todo, or a due date
// passed while not done. A date-only start/due counts as the whole day,
// so it is not late until the day ends.
func isLate(t *task.Task, now time.Time) bool {
	if t.Start != nil && t.Status == task.StatusTodo {
		if !lateDeadline(t.Start).After(now) {
			return true
		}
	}
	if t.Due != nil && t.Status != task.StatusDone {
		if !lateDeadline(t.Due).After(now) {
			return true
		}
	}
	return false
}

func lateDeadline(ts *task.Timestamp) time.Time {
	if ts.DateOnly() {
		return ts.EndOfDay()
	}
	return ts.Time
}

// isUpcoming checks for a start or due date inside (now, horizon].
func isUpcoming(t *task.Task, now, horizon time.Time) bool {
	within := func(ts *task.Timestamp) bool {
		return ts.After(now) && !ts.After(horizon)
	}
	if t.Start != nil && t.Status == task.StatusTodo && within(t.Start) {
		return true
	}
	if t.Due != nil && t.Status != task.StatusDone && within(t.Due) {
		return true
	}
	return false
}

// isToday checks for a start or due date on the current calendar day.
func isToday(t *task.Task, now time.Time) bool {
	if t.Start != nil && t.Status == task.StatusTodo && t.Start.SameDay(now) {
		return true
	}
	if t.Due != nil && t.Status != task.StatusDone && t.Due.SameDay(now) {
		return true
	}
	return false
}
