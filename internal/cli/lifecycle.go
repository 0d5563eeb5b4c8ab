package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <alias>",
	Short: "Mark a task as started",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		t, err := s.Start(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Started task: %s (%s)\n", t.Description, t.Alias)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <alias>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		t, successor, err := s.Complete(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Completed task: %s (%s)\n", t.Description, t.Alias)
		if successor != nil {
			fmt.Printf("Created next occurrence: %s (%s), start %s\n",
				successor.Description, successor.Alias, successor.Start.String())
		}
		return nil
	},
}
