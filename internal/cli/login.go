// login.go implements the "farmeye login" command.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmeye-dev/farmeye/internal/api"
	"github.com/farmeye-dev/farmeye/internal/log"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate against the diagnostic service",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		username, err = promptLine("Username")
		if err != nil {
			return err
		}
	}
	if username == "" {
		return fmt.Errorf("username required")
	}

	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	_, err = e.store.Login(context.Background(), username, password)
	if err != nil {
		_ = e.logger.Append(log.LogEvent{
			Event:    log.EventLoginFailed,
			Username: username,
			Error:    err.Error(),
		})

		var authErr *api.AuthError
		if errors.As(err, &authErr) && authErr.Reason == api.ReasonInvalidCredentials {
			if authErr.Detail != "" {
				return fmt.Errorf("login rejected: %s", authErr.Detail)
			}
			return fmt.Errorf("login rejected: invalid credentials")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	_ = e.logger.Append(log.LogEvent{
		Event:    log.EventLoginSucceeded,
		Username: username,
	})

	fmt.Printf("Logged in as %s\n", username)
	return nil
}
