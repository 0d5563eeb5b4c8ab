package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdoconnell/nrrdtask/internal/task"
)

var reminderNotify string

var reminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Manage task reminders",
}

var reminderAddCmd = &cobra.Command{
	Use:   "add <alias> <spec>",
	Short: "Add a reminder to a task",
	Long: `Add a reminder. The spec is either an absolute date/time or an
offset from the task's start or due date:

  reminder add 4xyz "2026-09-01 09:00"
  reminder add 4xyz due-1d
  reminder add 4xyz start+2h --notify email`,
	Args: cobra.ExactArgs(2),
	RunE: runReminderAdd,
}

var reminderRemoveCmd = &cobra.Command{
	Use:   "remove <alias> <number>",
	Short: "Remove a reminder from a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runReminderRemove,
}

var remindersWindow string

var remindersCmd = &cobra.Command{
	Use:   "reminders [interval]",
	Short: "Print upcoming reminders as JSON",
	Long: `Print the reminders that fire within the given interval (for
example 15m or 1h, default 1h) as a JSON feed for an external notifier.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReminders,
}

func init() {
	reminderAddCmd.Flags().StringVar(&reminderNotify, "notify", task.NotifyDisplay, "notification kind (display or email)")
	reminderCmd.AddCommand(reminderAddCmd)
	reminderCmd.AddCommand(reminderRemoveCmd)
}

func runReminderAdd(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	t, err := s.AddReminder(args[0], task.Reminder{Remind: args[1], Notify: reminderNotify})
	if err != nil {
		return err
	}
	fmt.Printf("Added reminder to task %s\n", t.Alias)
	return nil
}

func runReminderRemove(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid reminder number %q", args[1])
	}
	t, err := s.RemoveReminder(args[0], n)
	if err != nil {
		return err
	}
	fmt.Printf("Removed reminder %d from task %s\n", n, t.Alias)
	return nil
}

func runReminders(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	window := time.Hour
	if len(args) == 1 {
		if d := task.ParseDuration(args[0]); d > 0 {
			window = d
		}
	}
	events := s.UpcomingReminders(window)
	if len(events) == 0 {
		fmt.Println("[]")
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}
