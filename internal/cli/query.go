package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sdoconnell/nrrdtask/internal/filter"
	"github.com/sdoconnell/nrrdtask/internal/task"
)

var searchCmd = &cobra.Command{
	Use:   "search [expression]",
	Short: "Search tasks with a filter expression",
	Long: `Search tasks with a filter expression and print the matches as a
table. Terms are comma-delimited and all must match; a "%" splits the
expression into match terms and exclusion terms:

  search tags=work+home,due=2026-09-01~
  search status=todo%tags=someday

With no expression, every task matches.`,
	RunE: runSearch,
}

var queryFlags struct {
	limit  string
	asJSON bool
}

var queryCmd = &cobra.Command{
	Use:   "query [expression]",
	Short: "Query tasks for machine-readable output",
	Long: `Query tasks with the same expression language as search, printing
tab-delimited records for scripting (or full records with --json).`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryFlags.limit, "limit", "l", "", "comma-delimited fields to output")
	queryCmd.Flags().BoolVarP(&queryFlags.asJSON, "json", "j", false, "output full records as JSON")
}

// queryFields is the column order for query output.
var queryFields = []string{
	"uid", "alias", "status", "priority", "description", "location",
	"project", "percent", "tags", "parent", "start", "due", "started",
	"completed",
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	printTable(cfg, matchTasks(s.All(), args))
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	matched := matchTasks(s.All(), args)

	if queryFlags.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matched)
	}

	fields := queryFields
	if queryFlags.limit != "" {
		fields = nil
		for _, f := range strings.Split(strings.ToLower(queryFlags.limit), ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer w.Flush()
	for _, t := range matched {
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = fieldValue(t, f)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return nil
}

func matchTasks(all []*task.Task, args []string) []*task.Task {
	f := filter.Parse(strings.Join(args, " "))
	var out []*task.Task
	for _, t := range all {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func fieldValue(t *task.Task, field string) string {
	switch field {
	case "uid":
		return t.UID
	case "alias":
		return t.Alias
	case "status":
		return t.Status
	case "priority":
		if t.Priority == nil {
			return ""
		}
		return fmt.Sprintf("%d", *t.Priority)
	case "description":
		return t.Description
	case "location":
		return t.Location
	case "project":
		return t.Project
	case "percent":
		if t.Percent == nil {
			return ""
		}
		return fmt.Sprintf("%d", *t.Percent)
	case "tags":
		return strings.Join(t.Tags, ",")
	case "parent":
		return t.Parent
	case "rrule":
		return t.RRule
	case "start", "due", "started", "completed", "created", "updated":
		ts := map[string]*task.Timestamp{
			"start": t.Start, "due": t.Due, "started": t.Started,
			"completed": t.Completed, "created": t.Created, "updated": t.Updated,
		}[field]
		if ts == nil {
			return ""
		}
		return ts.String()
	default:
		return ""
	}
}
