// Package task defines the task record stored one-per-file in the data
// directory, along with the timestamp, reminder, and priority-tier
// handling shared by the store, filter, and recurrence packages.
package task

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Recognized status values. Other strings are accepted on load but carry
// no special meaning.
const (
	StatusTodo       = "todo"
	StatusInProgress = "inprogress"
	StatusWaiting    = "waiting"
	StatusOnHold     = "onhold"
	StatusBlocked    = "blocked"
	StatusCancelled  = "cancelled"
	StatusDone       = "done"
)

// Terminal reports whether a status ends the task lifecycle. A terminal
// transition on a recurring task is what advances its lineage.
func Terminal(status string) bool {
	switch strings.ToLower(status) {
	case StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Task is one task or subtask record. Optional attributes are explicit
// nullable fields; keys not understood by this version are kept in Extra
// and written back verbatim.
type Task struct {
	UID         string         `yaml:"uid" json:"uid"`
	Created     *Timestamp     `yaml:"created" json:"created"`
	Updated     *Timestamp     `yaml:"updated" json:"updated"`
	Alias       string         `yaml:"alias" json:"alias"`
	Description string         `yaml:"description" json:"description"`
	Location    string         `yaml:"location" json:"location,omitempty"`
	Priority    *int           `yaml:"priority" json:"priority,omitempty"`
	Tags        []string       `yaml:"tags" json:"tags,omitempty"`
	Start       *Timestamp     `yaml:"start" json:"start,omitempty"`
	Due         *Timestamp     `yaml:"due" json:"due,omitempty"`
	Started     *Timestamp     `yaml:"started" json:"started,omitempty"`
	Completed   *Timestamp     `yaml:"completed" json:"completed,omitempty"`
	Percent     *int           `yaml:"percent" json:"percent,omitempty"`
	Status      string         `yaml:"status" json:"status"`
	Parent      string         `yaml:"parent" json:"parent,omitempty"`
	Project     string         `yaml:"project" json:"project,omitempty"`
	RRule       string         `yaml:"rrule" json:"rrule,omitempty"`
	Reminders   []Reminder     `yaml:"reminders" json:"reminders,omitempty"`
	Notes       string         `yaml:"notes" json:"notes,omitempty"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Reminder is one reminder entry: a trigger spec (absolute timestamp or
// offset relative to start/due) and a notification kind.
type Reminder struct {
	Remind string `yaml:"remind" json:"remind"`
	Notify string `yaml:"notify,omitempty" json:"notify,omitempty"`
}

// Recurring reports whether this record is a recurring instance. An rrule
// without a start date is inert.
func (t *Task) Recurring() bool {
	return strings.TrimSpace(t.RRule) != "" && t.Start != nil
}

// Active reports whether the record is in a non-terminal status.
func (t *Task) Active() bool {
	return !Terminal(t.Status)
}

// HasTag reports case-insensitive tag membership.
func (t *Task) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, have := range t.Tags {
		if strings.ToLower(have) == tag {
			return true
		}
	}
	return false
}

// PriorityTier buckets the numeric priority against three thresholds.
// Lower numbers are higher priority; a task without a priority has no
// tier.
func (t *Task) PriorityTier(high, medium, normal int) string {
	if t.Priority == nil {
		return ""
	}
	switch p := *t.Priority; {
	case p <= high:
		return "high"
	case p <= medium:
		return "medium"
	case p <= normal:
		return "normal"
	default:
		return "low"
	}
}

// DueOffset returns the start-to-due duration, used to carry the same
// offset onto the next occurrence of a recurring task.
func (t *Task) DueOffset() (time.Duration, bool) {
	if t.Start == nil || t.Due == nil {
		return 0, false
	}
	return t.Due.Sub(t.Start.Time), true
}

// Normalize lowercases the case-folded fields and sorts tags, matching
// how records are interpreted regardless of how the file was edited.
func (t *Task) Normalize() {
	t.Alias = strings.ToLower(strings.TrimSpace(t.Alias))
	t.Status = strings.ToLower(strings.TrimSpace(t.Status))
	t.Parent = strings.ToLower(strings.TrimSpace(t.Parent))
	t.Project = strings.ToLower(strings.TrimSpace(t.Project))
	for i, tag := range t.Tags {
		t.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
	sort.Strings(t.Tags)
}

// Clone returns a deep copy.
func (t *Task) Clone() *Task {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Reminders != nil {
		c.Reminders = append([]Reminder(nil), t.Reminders...)
	}
	if t.Extra != nil {
		c.Extra = make(map[string]any, len(t.Extra))
		for k, v := range t.Extra {
			c.Extra[k] = v
		}
	}
	cpTime := func(ts *Timestamp) *Timestamp {
		if ts == nil {
			return nil
		}
		d := *ts
		return &d
	}
	c.Created = cpTime(t.Created)
	c.Updated = cpTime(t.Updated)
	c.Start = cpTime(t.Start)
	c.Due = cpTime(t.Due)
	c.Started = cpTime(t.Started)
	c.Completed = cpTime(t.Completed)
	cpInt := func(p *int) *int {
		if p == nil {
			return nil
		}
		d := *p
		return &d
	}
	c.Priority = cpInt(t.Priority)
	c.Percent = cpInt(t.Percent)
	return &c
}

// taskFile is the on-disk document shape: the record nests under a
// top-level "task" key.
type taskFile struct {
	Task *Task `yaml:"task"`
}

// Encode renders the record as a YAML document.
func Encode(t *Task) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&taskFile{Task: t}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a YAML task document. A document without a task key, uid,
// or alias is rejected; the caller decides whether to skip or abort.
func Decode(b []byte) (*Task, error) {
	var f taskFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.Task == nil {
		return nil, fmt.Errorf("no task data in document")
	}
	t := f.Task
	if strings.TrimSpace(t.UID) == "" || strings.TrimSpace(t.Alias) == "" {
		return nil, fmt.Errorf("missing uid and/or alias")
	}
	t.Normalize()
	return t, nil
}
