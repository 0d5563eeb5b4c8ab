package store

import (
	"fmt"
	"log"
	"strings"

	"github.com/sdoconnell/nrrdtask/internal/recur"
	"github.com/sdoconnell/nrrdtask/internal/task"
)

// Changes describes a partial update. Nil fields are untouched.
// Timestamp fields take the same expressions the filter language accepts;
// an unparseable value keeps the current one. Tags is an expression:
// "a,b" replaces the list, "+a,b" adds, "~a,b" removes.
type Changes struct {
	Description *string
	Location    *string
	Project     *string
	Priority    *int
	Percent     *int
	Status      *string
	Parent      *string
	RRule       *string
	Notes       *string
	Tags        *string
	Start       *string
	Due         *string
	Started     *string
	Completed   *string
}

// Update applies a partial change to the record behind alias and persists
// it. If the record was a recurring instance in a non-terminal status and
// the change moves it to a terminal one, the next occurrence is spawned
// as a fresh record; it is returned as successor (nil when none was
// created).
func (s *Store) Update(alias string, ch Changes) (updated, successor *task.Task, err error) {
	t, err := s.Get(alias)
	if err != nil {
		return nil, nil, err
	}
	wasRecurring := t.Recurring()
	wasActive := t.Active()

	u := t.Clone()
	applyChanges(u, ch, s)
	u.Normalize()
	u.Updated = task.NewTimestamp(timeNow())

	if err := s.persist(u, s.files[u.UID]); err != nil {
		return nil, nil, err
	}
	s.tasks[u.UID] = u

	if wasRecurring && wasActive && task.Terminal(u.Status) {
		successor, err = s.spawnSuccessor(u)
		if err != nil {
			return u, nil, err
		}
	}
	return u, successor, nil
}

func applyChanges(u *task.Task, ch Changes, s *Store) {
	if ch.Description != nil && strings.TrimSpace(*ch.Description) != "" {
		u.Description = strings.TrimSpace(*ch.Description)
	}
	if ch.Location != nil {
		u.Location = strings.TrimSpace(*ch.Location)
	}
	if ch.Project != nil {
		u.Project = strings.TrimSpace(*ch.Project)
	}
	if ch.Priority != nil {
		p := *ch.Priority
		u.Priority = &p
	}
	if ch.Percent != nil {
		p := *ch.Percent
		u.Percent = &p
	}
	if ch.Status != nil {
		u.Status = strings.ToLower(strings.TrimSpace(*ch.Status))
	}
	if ch.Parent != nil {
		parent := strings.ToLower(strings.TrimSpace(*ch.Parent))
		if parent == "" {
			u.Parent = ""
		} else if _, ok := s.aliases[parent]; ok {
			u.Parent = parent
		} else {
			log.Printf("parent %q not found - keeping current parent", parent)
		}
	}
	if ch.RRule != nil {
		u.RRule = strings.ToLower(strings.TrimSpace(*ch.RRule))
	}
	if ch.Notes != nil {
		u.Notes = *ch.Notes
	}
	if ch.Tags != nil {
		u.Tags = applyTagExpr(u.Tags, *ch.Tags)
	}
	u.Start = newOrCurrent(ch.Start, u.Start)
	u.Due = newOrCurrent(ch.Due, u.Due)
	u.Started = newOrCurrent(ch.Started, u.Started)
	u.Completed = newOrCurrent(ch.Completed, u.Completed)
}

// newOrCurrent parses a timestamp expression, keeping the current value
// when the expression is absent or unparseable.
func newOrCurrent(expr *string, current *task.Timestamp) *task.Timestamp {
	if expr == nil {
		return current
	}
	ts, err := task.ParseTimestamp(strings.TrimSpace(*expr))
	if err != nil {
		log.Printf("invalid timestamp %q - keeping current value", *expr)
		return current
	}
	return &ts
}

// applyTagExpr evaluates a tag change expression against the current tag
// list. A leading "+" adds the listed tags, "~" removes them, anything
// else replaces the list outright. The result is lowercased, deduplicated
// and sorted by Normalize afterwards.
func applyTagExpr(current []string, expr string) []string {
	expr = strings.ToLower(strings.TrimSpace(expr))
	split := func(s string) []string {
		var out []string
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
		return out
	}
	switch {
	case strings.HasPrefix(expr, "+"):
		out := append([]string(nil), current...)
		for _, tag := range split(expr[1:]) {
			if !containsString(out, tag) {
				out = append(out, tag)
			}
		}
		return out
	case strings.HasPrefix(expr, "~"):
		drop := split(expr[1:])
		var out []string
		for _, tag := range current {
			if !containsString(drop, tag) {
				out = append(out, tag)
			}
		}
		return out
	default:
		return split(expr)
	}
}

func containsString(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

// spawnSuccessor creates the next occurrence of a recurring record that
// just reached a terminal status. A rule that does not parse, or has no
// occurrence after the current start, produces no successor.
func (s *Store) spawnSuccessor(t *task.Task) (*task.Task, error) {
	rule, err := recur.Parse(t.RRule)
	if err != nil {
		return nil, nil
	}
	next, ok := rule.Next(t.Start.Time, s.cfg.RecurrenceLimit)
	if !ok {
		return nil, nil
	}
	n := &task.Task{
		Description: t.Description,
		Location:    t.Location,
		Project:     t.Project,
		Tags:        append([]string(nil), t.Tags...),
		Parent:      t.Parent,
		RRule:       t.RRule,
		Notes:       t.Notes,
		Status:      task.StatusTodo,
		Start:       task.NewTimestamp(next),
	}
	if t.Priority != nil {
		p := *t.Priority
		n.Priority = &p
	}
	if off, ok := t.DueOffset(); ok {
		n.Due = task.NewTimestamp(next.Add(off))
	}
	now := timeNow()
	for _, r := range t.Reminders {
		if r.Relative() {
			n.Reminders = append(n.Reminders, r)
			continue
		}
		// Absolute reminders carry over only while still in the future.
		if when, ok := r.Resolve(n.Start, n.Due, 0); ok && when.After(now) {
			n.Reminders = append(n.Reminders, r)
		}
	}
	return s.Create(n)
}

// Start marks a record in progress, stamping started and resetting
// percent.
func (s *Store) Start(alias string) (*task.Task, error) {
	now := timeNow().Format("2006-01-02 15:04:05")
	status := task.StatusInProgress
	percent := 0
	u, _, err := s.Update(alias, Changes{Status: &status, Started: &now, Percent: &percent})
	return u, err
}

// Complete marks a record done, stamping completed. The successor of a
// recurring record, if one spawned, is returned alongside.
func (s *Store) Complete(alias string) (*task.Task, *task.Task, error) {
	now := timeNow().Format("2006-01-02 15:04:05")
	status := task.StatusDone
	percent := 100
	return s.Update(alias, Changes{Status: &status, Completed: &now, Percent: &percent})
}

// clearable maps unsettable field names to their reset action.
var clearable = map[string]func(*task.Task){
	"tags":      func(t *task.Task) { t.Tags = nil },
	"start":     func(t *task.Task) { t.Start = nil },
	"due":       func(t *task.Task) { t.Due = nil },
	"started":   func(t *task.Task) { t.Started = nil },
	"completed": func(t *task.Task) { t.Completed = nil },
	"priority":  func(t *task.Task) { t.Priority = nil },
	"percent":   func(t *task.Task) { t.Percent = nil },
	"parent":    func(t *task.Task) { t.Parent = "" },
	"project":   func(t *task.Task) { t.Project = "" },
	"rrule":     func(t *task.Task) { t.RRule = "" },
	"reminders": func(t *task.Task) { t.Reminders = nil },
	"location":  func(t *task.Task) { t.Location = "" },
}

// ClearField resets one optional field to its empty value.
func (s *Store) ClearField(alias, field string) (*task.Task, error) {
	reset, ok := clearable[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return nil, fmt.Errorf("%w: %q cannot be unset", ErrInvalidField, field)
	}
	t, err := s.Get(alias)
	if err != nil {
		return nil, err
	}
	u := t.Clone()
	reset(u)
	u.Updated = task.NewTimestamp(timeNow())
	if err := s.persist(u, s.files[u.UID]); err != nil {
		return nil, err
	}
	s.tasks[u.UID] = u
	return u, nil
}

// AddReminder appends a reminder entry.
func (s *Store) AddReminder(alias string, rem task.Reminder) (*task.Task, error) {
	t, err := s.Get(alias)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rem.Remind) == "" {
		return nil, fmt.Errorf("%w: reminder expression is required", ErrInvalid)
	}
	u := t.Clone()
	u.Reminders = append(u.Reminders, rem)
	u.Updated = task.NewTimestamp(timeNow())
	if err := s.persist(u, s.files[u.UID]); err != nil {
		return nil, err
	}
	s.tasks[u.UID] = u
	return u, nil
}

// RemoveReminder deletes the reminder at a 1-based index.
func (s *Store) RemoveReminder(alias string, index int) (*task.Task, error) {
	t, err := s.Get(alias)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(t.Reminders) {
		return nil, fmt.Errorf("%w: reminder %d (record has %d)", ErrIndexOutOfRange, index, len(t.Reminders))
	}
	u := t.Clone()
	u.Reminders = append(u.Reminders[:index-1], u.Reminders[index:]...)
	u.Updated = task.NewTimestamp(timeNow())
	if err := s.persist(u, s.files[u.UID]); err != nil {
		return nil, err
	}
	s.tasks[u.UID] = u
	return u, nil
}
