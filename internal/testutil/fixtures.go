// Package testutil provides test helper utilities for farmeye tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeService is an in-process stand-in for the diagnostic service. Each
// endpoint serves a configurable status and body and records how it was
// called. Zero-status fields mean 200 with a sensible default body.
type FakeService struct {
	Server *httptest.Server

	LoginStatus    int
	LoginBody      string
	RegisterStatus int
	RegisterBody   string
	AnalyzeStatus  int
	AnalyzeBody    string
	HistoryStatus  int
	HistoryBody    string

	mu            sync.Mutex
	loginCalls    int
	registerCalls int
	analyzeCalls  int
	historyCalls  int

	lastUsername      string
	lastPassword      string
	lastAuthorization string
	lastSymptomsField string
	lastImageName     string
	lastRegisterBody  []byte
}

// NewFakeService starts a FakeService; it is shut down when the test ends.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()

	f := &FakeService{}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", f.handleLogin)
	mux.HandleFunc("/register", f.handleRegister)
	mux.HandleFunc("/analyze", f.handleAnalyze)
	mux.HandleFunc("/history", f.handleHistory)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake service.
func (f *FakeService) URL() string {
	return f.Server.URL
}

func (f *FakeService) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.loginCalls++
	f.lastUsername = r.PostFormValue("username")
	f.lastPassword = r.PostFormValue("password")
	status, body := f.LoginStatus, f.LoginBody
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if body == "" {
		body = `{"access_token":"AT1","refresh_token":"RT1","token_type":"bearer"}`
	}
	writeResponse(w, status, body)
}

func (f *FakeService) handleRegister(w http.ResponseWriter, r *http.Request) {
	payload, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.registerCalls++
	f.lastRegisterBody = payload
	status, body := f.RegisterStatus, f.RegisterBody
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusCreated
	}
	if body == "" {
		body = `{}`
	}
	writeResponse(w, status, body)
}

func (f *FakeService) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.analyzeCalls++
	f.lastAuthorization = r.Header.Get("Authorization")
	f.mu.Unlock()

	if err := r.ParseMultipartForm(32 << 20); err == nil {
		f.mu.Lock()
		f.lastSymptomsField = r.FormValue("symptoms")
		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			f.lastImageName = files[0].Filename
		}
		f.mu.Unlock()
	}

	f.mu.Lock()
	status, body := f.AnalyzeStatus, f.AnalyzeBody
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if body == "" {
		body = `{"description":"No visible signs of disease","recommendations":["Continue preventive monitoring"],"state":"healthy","confidence":90}`
	}
	writeResponse(w, status, body)
}

func (f *FakeService) handleHistory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.historyCalls++
	f.lastAuthorization = r.Header.Get("Authorization")
	status, body := f.HistoryStatus, f.HistoryBody
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if body == "" {
		body = `[]`
	}
	writeResponse(w, status, body)
}

func writeResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// LoginCalls returns how many login requests were received.
func (f *FakeService) LoginCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

// RegisterCalls returns how many registration requests were received.
func (f *FakeService) RegisterCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerCalls
}

// AnalyzeCalls returns how many analyze requests were received.
func (f *FakeService) AnalyzeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analyzeCalls
}

// HistoryCalls returns how many history requests were received.
func (f *FakeService) HistoryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyCalls
}

// LastCredentials returns the username/password of the last login request.
func (f *FakeService) LastCredentials() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUsername, f.lastPassword
}

// LastAuthorization returns the Authorization header of the last
// protected request.
func (f *FakeService) LastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuthorization
}

// LastSymptoms decodes the symptoms form field of the last analyze request.
func (f *FakeService) LastSymptoms(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	raw := f.lastSymptomsField
	f.mu.Unlock()

	var symptoms []string
	if err := json.Unmarshal([]byte(raw), &symptoms); err != nil {
		t.Fatalf("decoding symptoms field %q: %v", raw, err)
	}
	return symptoms
}

// LastImageName returns the filename of the last uploaded image.
func (f *FakeService) LastImageName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastImageName
}

// LastRegisterBody returns the raw JSON of the last registration request.
func (f *FakeService) LastRegisterBody() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRegisterBody
}
