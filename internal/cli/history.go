// history.go implements the "farmeye history" command showing past diagnoses.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmeye-dev/farmeye/internal/api"
	"github.com/farmeye-dev/farmeye/internal/history"
	"github.com/farmeye-dev/farmeye/internal/log"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past diagnoses",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.requireAuth(); err != nil {
		return err
	}

	repo := history.NewRepository(e.client)
	if err := repo.Refresh(context.Background(), e.store.CurrentToken()); err != nil {
		var authErr *api.AuthError
		if errors.As(err, &authErr) && authErr.Reason == api.ReasonTokenRejected {
			return fmt.Errorf("session expired; run 'farmeye login' and try again")
		}
		return fmt.Errorf("fetching history: %w", err)
	}

	entries := repo.Entries()
	_ = e.logger.Append(log.LogEvent{
		Event:   log.EventHistoryRefreshed,
		Entries: len(entries),
	})

	if len(entries) == 0 {
		fmt.Println("No diagnoses yet.")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s  %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04"), entry.Resultado)
		if entry.Recomendacion != "" {
			fmt.Printf("    %s\n", entry.Recomendacion)
		}
		if entry.ImageReference != "" {
			fmt.Printf("    image: %s\n", entry.ImageReference)
		}
	}
	return nil
}
