package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdoconnell/nrrdtask/internal/store"
)

var modifyCmd = &cobra.Command{
	Use:   "modify <alias>",
	Short: "Modify task fields",
	Long: `Modify fields on an existing task. Only the flags given change;
everything else is left alone. Tags take an expression: "a,b" replaces
the tag list, "+a,b" adds tags, "~a,b" removes them.

Setting a recurring task's status to done or cancelled creates the next
occurrence as a new task.`,
	Args: cobra.ExactArgs(1),
	RunE: runModify,
}

func init() {
	f := modifyCmd.Flags()
	f.String("description", "", "task description")
	f.String("location", "", "task location")
	f.String("project", "", "project name")
	f.Int("priority", 0, "numeric priority (lower is higher)")
	f.Int("percent", 0, "percent complete")
	f.String("status", "", "task status")
	f.String("parent", "", "alias of the parent task")
	f.String("tags", "", "tag expression")
	f.String("start", "", "start date/time")
	f.String("due", "", "due date/time")
	f.String("started", "", "started date/time")
	f.String("completed", "", "completed date/time")
	f.String("rrule", "", "recurrence rule")
	f.String("notes", "", "task notes")
}

func runModify(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	var ch store.Changes
	f := cmd.Flags()
	strFlag := func(name string, dst **string) {
		if f.Changed(name) {
			v, _ := f.GetString(name)
			*dst = &v
		}
	}
	strFlag("description", &ch.Description)
	strFlag("location", &ch.Location)
	strFlag("project", &ch.Project)
	strFlag("status", &ch.Status)
	strFlag("parent", &ch.Parent)
	strFlag("tags", &ch.Tags)
	strFlag("start", &ch.Start)
	strFlag("due", &ch.Due)
	strFlag("started", &ch.Started)
	strFlag("completed", &ch.Completed)
	strFlag("rrule", &ch.RRule)
	strFlag("notes", &ch.Notes)
	if f.Changed("priority") {
		v, _ := f.GetInt("priority")
		ch.Priority = &v
	}
	if f.Changed("percent") {
		v, _ := f.GetInt("percent")
		ch.Percent = &v
	}

	updated, successor, err := s.Update(args[0], ch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task: %s (%s)\n", updated.Description, updated.Alias)
	if successor != nil {
		fmt.Printf("Created next occurrence: %s (%s), start %s\n",
			successor.Description, successor.Alias, successor.Start.String())
	}
	return nil
}
