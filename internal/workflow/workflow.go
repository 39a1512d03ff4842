// Package workflow sequences the capture-to-diagnosis cycle: image
// acquisition, symptom selection, submission, and result delivery.
package workflow

import (
	"context"
	"sync"

	"github.com/farmeye-dev/farmeye/internal/api"
	"github.com/farmeye-dev/farmeye/internal/symptoms"
)

// State is the current stage of one diagnostic request.
type State string

const (
	StateIdle             State = "idle"
	StateImageAcquired    State = "image_acquired"
	StateSymptomsSelected State = "symptoms_selected"
	StateSubmitting       State = "submitting"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
)

// Analyzer submits a diagnostic request. Satisfied by api.Client.
type Analyzer interface {
	Analyze(ctx context.Context, request api.DiagnosticRequest, token string) (*api.DiagnosisResult, error)
}

// TokenSource provides the bearer token for protected calls. Satisfied by
// session.Store.
type TokenSource interface {
	CurrentToken() string
}

// Policy controls when a request becomes submittable.
type Policy struct {
	// RequireSymptoms blocks Submit until at least one symptom is
	// selected. An image is always required.
	RequireSymptoms bool
}

// Workflow is the state machine driving one diagnostic request at a time.
// The Submitting state is the mutual-exclusion mechanism: at most one
// analyze call is in flight per Workflow, and a response that arrives for
// a since-reset submission is discarded.
type Workflow struct {
	analyzer Analyzer
	tokens   TokenSource
	policy   Policy

	mu        sync.Mutex
	state     State
	imageName string
	image     []byte
	selected  []string
	result    *api.DiagnosisResult
	err       error
	gen       int
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Workflow in the Idle state.
func New(analyzer Analyzer, tokens TokenSource, policy Policy) *Workflow {
	return &Workflow{
		analyzer: analyzer,
		tokens:   tokens,
		policy:   policy,
		state:    StateIdle,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// CaptureImage stores the image reference. From Completed or Failed it
// starts a new cycle, discarding the previous request and result. Not
// permitted while a submission is in flight.
func (w *Workflow) CaptureImage(name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateSubmitting:
		return &api.ValidationError{Field: "image", Message: "submission in progress"}
	case StateCompleted, StateFailed:
		w.resetLocked()
	}

	w.imageName = name
	w.image = data
	w.state = w.selectionState()
	return nil
}

// ToggleSymptom adds the symptom to the selection, or removes it if already
// selected. The label must belong to the vocabulary and an image must have
// been captured first.
func (w *Workflow) ToggleSymptom(label string) error {
	if !symptoms.IsKnown(label) {
		return &api.ValidationError{Field: "symptoms", Message: "unknown symptom: " + label}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateImageAcquired, StateSymptomsSelected:
	default:
		return &api.ValidationError{Field: "image", Message: "capture an image first"}
	}

	for i, s := range w.selected {
		if s == label {
			w.selected = append(w.selected[:i], w.selected[i+1:]...)
			w.state = w.selectionState()
			return nil
		}
	}
	w.selected = append(w.selected, label)
	w.state = w.selectionState()
	return nil
}

// selectionState returns ImageAcquired or SymptomsSelected based on the
// current selection. Callers must hold w.mu.
func (w *Workflow) selectionState() State {
	if len(w.selected) > 0 {
		return StateSymptomsSelected
	}
	return StateImageAcquired
}

// Symptoms returns the current selection in toggle order.
func (w *Workflow) Symptoms() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.selected))
	copy(out, w.selected)
	return out
}

// Submit starts the analyze call. It is a no-op while a submission is
// already in flight, and fails locally when the image is missing or the
// symptom policy is unmet. Exactly one analyze call is issued per accepted
// Submit; the outcome arrives via Wait.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()

	if w.state == StateSubmitting {
		w.mu.Unlock()
		return nil
	}
	if len(w.image) == 0 {
		w.mu.Unlock()
		return &api.ValidationError{Field: "image", Message: "no image captured"}
	}
	switch w.state {
	case StateImageAcquired, StateSymptomsSelected:
	default:
		w.mu.Unlock()
		return &api.ValidationError{Field: "image", Message: "no request in progress"}
	}
	if w.policy.RequireSymptoms && len(w.selected) == 0 {
		w.mu.Unlock()
		return &api.ValidationError{Field: "symptoms", Message: "select at least one symptom"}
	}

	callCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.state = StateSubmitting
	w.gen++
	gen := w.gen
	w.done = make(chan struct{})

	request := api.DiagnosticRequest{
		ImageName: w.imageName,
		Image:     w.image,
		Symptoms:  append([]string(nil), w.selected...),
	}
	token := w.tokens.CurrentToken()
	w.mu.Unlock()

	go func() {
		result, err := w.analyzer.Analyze(callCtx, request, token)
		cancel()
		w.complete(gen, result, err)
	}()

	return nil
}

// complete records the outcome of the analyze call identified by gen.
// Outcomes for superseded submissions are dropped.
func (w *Workflow) complete(gen int, result *api.DiagnosisResult, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.gen || w.state != StateSubmitting {
		return
	}

	if err != nil {
		w.state = StateFailed
		w.err = err
	} else {
		w.state = StateCompleted
		w.result = result
	}

	close(w.done)
	w.done = nil
}

// Wait blocks until the in-flight submission reaches a terminal state and
// returns its outcome. If the submission was abandoned by Reset, both
// return values are nil. When no submission is in flight it returns the
// last recorded outcome.
func (w *Workflow) Wait() (*api.DiagnosisResult, error) {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	if done != nil {
		<-done
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result, w.err
}

// Result returns the diagnosis held after a Completed submission, or nil.
func (w *Workflow) Result() *api.DiagnosisResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Err returns the error attached to a Failed state, or nil.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Reset returns to Idle from any state, discarding the in-progress request
// and any held result. An in-flight analyze call is cancelled and its
// eventual outcome ignored.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// resetLocked discards all request state. Callers must hold w.mu.
func (w *Workflow) resetLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.done != nil {
		close(w.done)
		w.done = nil
	}
	w.gen++
	w.state = StateIdle
	w.imageName = ""
	w.image = nil
	w.selected = nil
	w.result = nil
	w.err = nil
}
