// logout.go implements the "farmeye logout" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmeye-dev/farmeye/internal/log"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Long:  `Remove the persisted credentials. Safe to run when already logged out.`,
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	wasAuthenticated := e.store.IsAuthenticated()
	if err := e.store.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if wasAuthenticated {
		_ = e.logger.Append(log.LogEvent{Event: log.EventLogout})
		fmt.Println("Logged out")
	} else {
		fmt.Println("Not logged in")
	}
	return nil
}
