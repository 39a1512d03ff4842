// init.go implements the "farmeye init" command which writes the default
// configuration file.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/farmeye-dev/farmeye/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Create ~/.farmeye/config.yaml with default settings. Use --server to
point the client at a non-default service URL.`,
	RunE: runInit,
}

var (
	serverFlag          string
	requireSymptomsFlag bool
)

func init() {
	initCmd.Flags().StringVar(&serverFlag, "server", "", "Base URL of the diagnostic service")
	initCmd.Flags().BoolVar(&requireSymptomsFlag, "require-symptoms", false, "Refuse submissions without at least one symptom")
}

func runInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	if _, err := config.ReadConfig(home); err == nil {
		return fmt.Errorf("config already exists at %s", filepath.Join(home, ".farmeye", "config.yaml"))
	}

	cfg := config.DefaultConfig()
	if serverFlag != "" {
		cfg.Server.BaseURL = serverFlag
	}
	cfg.Analysis.RequireSymptoms = requireSymptomsFlag

	if err := config.WriteConfig(home, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", filepath.Join(home, ".farmeye", "config.yaml"))
	fmt.Printf("Server: %s\n", cfg.Server.BaseURL)
	return nil
}
