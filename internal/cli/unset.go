package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unsetCmd = &cobra.Command{
	Use:   "unset <alias> <field>",
	Short: "Clear an optional task field",
	Long: `Clear one optional field back to its empty value. Fields that can
be unset: tags, start, due, started, completed, priority, percent,
parent, project, rrule, reminders, location.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		t, err := s.ClearField(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %s on task %s\n", args[1], t.Alias)
		return nil
	},
}
