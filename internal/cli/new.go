package cli

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

var newFlags struct {
	location  string
	project   string
	priority  int
	tags      string
	status    string
	parent    string
	start     string
	due       string
	rrule     string
	notes     string
	reminders []string
}

var newCmd = &cobra.Command{
	Use:   "new <description>",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNew,
}

func init() {
	f := newCmd.Flags()
	f.StringVar(&newFlags.location, "location", "", "task location")
	f.StringVar(&newFlags.project, "project", "", "project name")
	f.IntVar(&newFlags.priority, "priority", 0, "numeric priority (lower is higher)")
	f.StringVar(&newFlags.tags, "tags", "", "comma-delimited tags")
	f.StringVar(&newFlags.status, "status", "", "initial status (default todo)")
	f.StringVar(&newFlags.parent, "parent", "", "alias of the parent task")
	f.StringVar(&newFlags.start, "start", "", "start date/time")
	f.StringVar(&newFlags.due, "due", "", "due date/time")
	f.StringVar(&newFlags.rrule, "rrule", "", "recurrence rule")
	f.StringVar(&newFlags.notes, "notes", "", "task notes")
	f.StringArrayVar(&newFlags.reminders, "reminder", nil, "reminder spec, absolute or start/due offset (repeatable)")
}

func runNew(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	t := &task.Task{
		Description: strings.Join(args, " "),
		Location:    newFlags.location,
		Project:     newFlags.project,
		Status:      newFlags.status,
		Parent:      newFlags.parent,
		RRule:       newFlags.rrule,
		Notes:       newFlags.notes,
	}
	if newFlags.priority > 0 {
		p := newFlags.priority
		t.Priority = &p
	}
	for _, tag := range strings.Split(newFlags.tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			t.Tags = append(t.Tags, tag)
		}
	}
	t.Start = parseTimeFlag("start", newFlags.start)
	t.Due = parseTimeFlag("due", newFlags.due)
	for _, spec := range newFlags.reminders {
		rem := task.Reminder{Remind: spec}
		if i := strings.IndexByte(spec, ':'); i >= 0 && (spec[i+1:] == task.NotifyEmail || spec[i+1:] == task.NotifyDisplay) {
			rem.Remind, rem.Notify = spec[:i], spec[i+1:]
		}
		t.Reminders = append(t.Reminders, rem)
	}
	created, err := s.Create(t)
	if err != nil {
		return err
	}
	fmt.Printf("Added task: %s (%s)\n", created.Description, created.Alias)
	return nil
}

func parseTimeFlag(name, value string) *task.Timestamp {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	ts, err := task.ParseTimestamp(value)
	if err != nil {
		log.Printf("invalid %s %q - ignoring", name, value)
		return nil
	}
	return &ts
}
