// analyze.go implements the "farmeye analyze" command which drives the
// capture -> symptoms -> submit -> result workflow.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/farmeye-dev/farmeye/internal/api"
	"github.com/farmeye-dev/farmeye/internal/log"
	"github.com/farmeye-dev/farmeye/internal/symptoms"
	"github.com/farmeye-dev/farmeye/internal/tui"
	"github.com/farmeye-dev/farmeye/internal/workflow"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Submit an image for diagnosis",
	Long: `Submit a photograph of a chicken together with observed symptoms and
print the diagnosis. Pass symptoms with repeated --symptom flags, or run
on a terminal without flags to pick them interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var symptomFlags []string

func init() {
	analyzeCmd.Flags().StringArrayVarP(&symptomFlags, "symptom", "s", nil, "Observed symptom (repeatable); see 'farmeye symptoms'")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.requireAuth(); err != nil {
		return err
	}

	imagePath := args[0]
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	selected := symptomFlags
	if len(selected) == 0 && tui.IsTTY() {
		selected, err = pickSymptoms()
		if err != nil {
			return err
		}
	}

	wf := workflow.New(e.client, e.store, workflow.Policy{
		RequireSymptoms: e.cfg.Analysis.RequireSymptoms,
	})

	if err := wf.CaptureImage(filepath.Base(imagePath), image); err != nil {
		return err
	}
	for _, s := range selected {
		if err := wf.ToggleSymptom(s); err != nil {
			return fmt.Errorf("%w (see 'farmeye symptoms' for the accepted list)", err)
		}
	}

	if Verbose() {
		fmt.Printf("Submitting %s with symptoms %v to %s\n", filepath.Base(imagePath), wf.Symptoms(), e.cfg.Server.BaseURL)
	}

	start := time.Now()
	if err := wf.Submit(context.Background()); err != nil {
		var valErr *api.ValidationError
		if errors.As(err, &valErr) {
			return fmt.Errorf("cannot submit: %s", valErr.Message)
		}
		return err
	}

	_ = e.logger.Append(log.LogEvent{
		Event:    log.EventAnalysisSubmitted,
		Image:    filepath.Base(imagePath),
		Symptoms: wf.Symptoms(),
	})

	fmt.Println("Analyzing...")
	result, err := wf.Wait()
	if err != nil {
		_ = e.logger.Append(log.LogEvent{
			Event:      log.EventAnalysisFailed,
			Image:      filepath.Base(imagePath),
			Error:      err.Error(),
			DurationMs: time.Since(start).Milliseconds(),
		})
		return analysisError(err)
	}

	_ = e.logger.Append(log.LogEvent{
		Event:      log.EventAnalysisCompleted,
		Image:      filepath.Base(imagePath),
		State:      result.State,
		Confidence: result.Confidence,
		DurationMs: time.Since(start).Milliseconds(),
	})

	printResult(result)
	return nil
}

// pickSymptoms opens the interactive selector over the vocabulary.
func pickSymptoms() ([]string, error) {
	final, err := tui.Run(tui.NewPicker(symptoms.All(), nil))
	if err != nil {
		return nil, fmt.Errorf("symptom picker: %w", err)
	}
	picker := final.(tui.PickerModel)
	if picker.Cancelled() {
		return nil, fmt.Errorf("analysis cancelled")
	}
	return picker.Selection(), nil
}

// analysisError turns a workflow failure into a user-facing message.
func analysisError(err error) error {
	var authErr *api.AuthError
	if errors.As(err, &authErr) && authErr.Reason == api.ReasonTokenRejected {
		return fmt.Errorf("session expired; run 'farmeye login' and try again")
	}

	var subErr *api.SubmissionError
	if errors.As(err, &subErr) && subErr.Detail != "" {
		return fmt.Errorf("analysis failed: %s", subErr.Detail)
	}
	return fmt.Errorf("analysis failed: %w", err)
}

func printResult(result *api.DiagnosisResult) {
	fmt.Println()
	fmt.Printf("Diagnosis: %s\n", result.Description)
	fmt.Printf("State:     %s\n", result.State)
	fmt.Printf("Confidence: %.0f%%\n", result.Confidence)
	if len(result.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}
