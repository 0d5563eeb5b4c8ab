// Package cli wires the nrrdtask commands. Each command opens the store,
// performs one operation, and prints either a human table or JSON for
// scripting.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdoconnell/nrrdtask/internal/config"
	"github.com/sdoconnell/nrrdtask/internal/store"
)

var (
	cfgPath string
	dataDir string
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "nrrdtask",
		Short: "Terminal-based task management",
		Long: `nrrdtask is a terminal-based task manager. Tasks are plain YAML files,
one per task, addressed by short generated aliases.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default ~/.config/nrrdtask/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(unsetCmd)
	rootCmd.AddCommand(reminderCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nrrdtask %s\n", version)
		},
	})

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func openStore() (*store.Store, *config.Config, error) {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	s, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}
