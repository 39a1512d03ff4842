// symptoms.go implements the "farmeye symptoms" command listing the
// accepted symptom labels.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmeye-dev/farmeye/internal/symptoms"
)

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List the accepted symptom labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range symptoms.All() {
			fmt.Println(s)
		}
		return nil
	},
}
