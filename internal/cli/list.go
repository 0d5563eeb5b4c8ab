package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdoconnell/nrrdtask/internal/config"
	"github.com/sdoconnell/nrrdtask/internal/filter"
	"github.com/sdoconnell/nrrdtask/internal/task"
)

var listCmd = &cobra.Command{
	Use:   "list <view> [project]",
	Short: "List tasks in a named view",
	Long: `List tasks in one of the named views:

  open    tasks not yet done
  all     every task
  done    completed tasks
  nosubs  open tasks that are not subtasks
  late    tasks past their start or due date
  soon    tasks starting or due within days_soon
  today   tasks starting or due today

An optional project name restricts the view to that project.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	pred, err := filter.ResolveView(args[0], time.Now(), cfg.DaysSoon)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		pred = filter.WithProject(pred, args[1])
	}
	var matched []*task.Task
	for _, t := range s.All() {
		if pred(t) {
			matched = append(matched, t)
		}
	}
	printTable(cfg, matched)
	return nil
}

func printTable(cfg *config.Config, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ALIAS\tSTATUS\tPRI\tDESCRIPTION\tSTART\tDUE\tTAGS")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Alias,
			t.Status,
			tierLabel(cfg, t),
			t.Description,
			timeCell(t.Start),
			timeCell(t.Due),
			strings.Join(t.Tags, ","),
		)
	}
}

func tierLabel(cfg *config.Config, t *task.Task) string {
	tier := t.PriorityTier(cfg.PriorityHigh, cfg.PriorityMedium, cfg.PriorityNormal)
	if tier == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", tier, *t.Priority)
}

func timeCell(ts *task.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return ts.String()
}
