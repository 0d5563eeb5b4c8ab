package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deleteForce    bool
	deleteCascade  bool
	archiveForce   bool
	archiveCascade bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <alias>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <alias>",
	Short: "Move a task to the archive directory",
	Long: `Move a task's file into the archive subdirectory of the data
directory. Archived tasks no longer appear in any list or search.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without confirmation")
	deleteCmd.Flags().BoolVar(&deleteCascade, "cascade", true, "also delete subtasks")
	archiveCmd.Flags().BoolVarP(&archiveForce, "force", "f", false, "archive without confirmation")
	archiveCmd.Flags().BoolVar(&archiveCascade, "cascade", true, "also archive subtasks")
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	t, err := s.Get(args[0])
	if err != nil {
		return err
	}
	if !deleteForce && !confirm(fmt.Sprintf("Delete task %q (%s)?", t.Description, t.Alias)) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := s.Delete(t.Alias, deleteCascade); err != nil {
		return err
	}
	fmt.Printf("Deleted task: %s\n", t.Alias)
	return nil
}

func runArchive(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	t, err := s.Get(args[0])
	if err != nil {
		return err
	}
	if !archiveForce && !confirm(fmt.Sprintf("Archive task %q (%s)?", t.Description, t.Alias)) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := s.Archive(t.Alias, archiveCascade); err != nil {
		return err
	}
	fmt.Printf("Archived task: %s\n", t.Alias)
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
