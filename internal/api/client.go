// client.go issues the HTTP calls behind login, registration, analysis
// and history. One network call per method, no automatic retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the FarmEye diagnostic service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// detailBody is the error shape the service returns on rejections.
type detailBody struct {
	Detail string `json:"detail"`
}

// readDetail extracts the server-provided detail message, best-effort.
func readDetail(body []byte) string {
	var d detailBody
	if err := json.Unmarshal(body, &d); err != nil {
		return ""
	}
	return d.Detail
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Login exchanges credentials for a Session. Invalid credentials map to
// AuthError{invalid_credentials}; transport failures to AuthError{network}.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("api: building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Reason: ReasonNetwork, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthError{Reason: ReasonNetwork, Detail: err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{Reason: ReasonInvalidCredentials, Detail: readDetail(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SubmissionError{Kind: KindServer, HTTPStatus: resp.StatusCode, Detail: readDetail(body)}
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, &SubmissionError{Kind: KindMalformedResponse, Detail: err.Error()}
	}
	if lr.AccessToken == "" {
		return nil, &SubmissionError{Kind: KindMalformedResponse, Detail: "missing access_token"}
	}

	return &Session{AccessToken: lr.AccessToken, RefreshToken: lr.RefreshToken}, nil
}

// Register submits a profile to the registration endpoint. Field-level
// validation happens before this call, so errors here are server rejections.
func (c *Client) Register(ctx context.Context, profile Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("api: encoding profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("api: building register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SubmissionError{Kind: KindNetwork, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &SubmissionError{Kind: KindServer, HTTPStatus: resp.StatusCode, Detail: readDetail(body)}
	}

	return nil
}

// Analyze submits an image plus symptom list and returns the diagnosis.
// The image travels as a multipart file attachment and the symptoms as a
// JSON-encoded form field. A result with an out-of-range confidence or an
// unknown state label is rejected as malformed, never repaired.
func (c *Client) Analyze(ctx context.Context, request DiagnosticRequest, token string) (*DiagnosisResult, error) {
	if token == "" {
		return nil, &AuthError{Reason: ReasonTokenRejected, Detail: "not authenticated"}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", request.ImageName)
	if err != nil {
		return nil, fmt.Errorf("api: creating form file: %w", err)
	}
	if _, err := part.Write(request.Image); err != nil {
		return nil, fmt.Errorf("api: writing image: %w", err)
	}

	symptoms := request.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	encoded, err := json.Marshal(symptoms)
	if err != nil {
		return nil, fmt.Errorf("api: encoding symptoms: %w", err)
	}
	if err := writer.WriteField("symptoms", string(encoded)); err != nil {
		return nil, fmt.Errorf("api: writing symptoms field: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("api: closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", body)
	if err != nil {
		return nil, fmt.Errorf("api: building analyze request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SubmissionError{Kind: KindNetwork, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SubmissionError{Kind: KindNetwork, Detail: err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{Reason: ReasonTokenRejected, Detail: readDetail(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SubmissionError{Kind: KindServer, HTTPStatus: resp.StatusCode, Detail: readDetail(respBody)}
	}

	var result DiagnosisResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &SubmissionError{Kind: KindMalformedResponse, Detail: err.Error()}
	}
	if err := validateResult(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// validateResult enforces the response contract at the client boundary.
func validateResult(r *DiagnosisResult) error {
	if r.Description == "" {
		return &SubmissionError{Kind: KindMalformedResponse, Detail: "missing description"}
	}
	switch r.State {
	case StateHealthy, StateMild, StateSevere:
	default:
		return &SubmissionError{Kind: KindMalformedResponse, Detail: fmt.Sprintf("unknown state %q", r.State)}
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return &SubmissionError{Kind: KindMalformedResponse, Detail: fmt.Sprintf("confidence %v out of range", r.Confidence)}
	}
	return nil
}

// FetchHistory returns the authenticated user's past diagnoses as served,
// newest first. An empty list is a valid result, not an error.
func (c *Client) FetchHistory(ctx context.Context, token string) ([]HistoryEntry, error) {
	if token == "" {
		return nil, &AuthError{Reason: ReasonTokenRejected, Detail: "not authenticated"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history", nil)
	if err != nil {
		return nil, fmt.Errorf("api: building history request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SubmissionError{Kind: KindNetwork, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SubmissionError{Kind: KindNetwork, Detail: err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{Reason: ReasonTokenRejected, Detail: readDetail(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SubmissionError{Kind: KindServer, HTTPStatus: resp.StatusCode, Detail: readDetail(body)}
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &SubmissionError{Kind: KindMalformedResponse, Detail: err.Error()}
	}

	return entries, nil
}
