package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

var infoCmd = &cobra.Command{
	Use:   "info <alias>",
	Short: "Show the full details of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	t, err := s.Get(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "uid\t%s\n", t.UID)
	fmt.Fprintf(w, "alias\t%s\n", t.Alias)
	fmt.Fprintf(w, "description\t%s\n", t.Description)
	fmt.Fprintf(w, "status\t%s\n", t.Status)
	if t.Priority != nil {
		fmt.Fprintf(w, "priority\t%s\n", tierLabel(cfg, t))
	}
	if t.Percent != nil {
		fmt.Fprintf(w, "percent\t%d\n", *t.Percent)
	}
	if t.Location != "" {
		fmt.Fprintf(w, "location\t%s\n", t.Location)
	}
	if t.Project != "" {
		fmt.Fprintf(w, "project\t%s\n", t.Project)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "tags\t%s\n", strings.Join(t.Tags, ","))
	}
	if t.Parent != "" {
		fmt.Fprintf(w, "parent\t%s\n", t.Parent)
	}
	for _, pair := range []struct {
		name string
		ts   *task.Timestamp
	}{
		{"start", t.Start}, {"due", t.Due}, {"started", t.Started},
		{"completed", t.Completed}, {"created", t.Created}, {"updated", t.Updated},
	} {
		if pair.ts != nil {
			fmt.Fprintf(w, "%s\t%s\n", pair.name, pair.ts.String())
		}
	}
	if t.RRule != "" {
		fmt.Fprintf(w, "rrule\t%s\n", t.RRule)
	}
	for i, r := range t.Reminders {
		fmt.Fprintf(w, "reminder %d\t%s (%s)\n", i+1, r.Remind, r.Kind())
	}
	w.Flush()

	if subs := s.Subtasks(t.Alias); len(subs) > 0 {
		fmt.Println("\nSubtasks:")
		printTable(cfg, subs)
	}
	if t.Notes != "" {
		fmt.Printf("\nNotes:\n%s\n", t.Notes)
	}
	return nil
}
