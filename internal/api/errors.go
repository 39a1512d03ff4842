// Package api implements the HTTP client for the FarmEye diagnostic service.
// This file defines the error taxonomy surfaced to callers.
package api

import "fmt"

// AuthError reasons.
const (
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonTokenRejected      = "token_rejected"
	ReasonNetwork            = "network"
)

// SubmissionError kinds.
const (
	KindNetwork           = "network"
	KindServer            = "server"
	KindMalformedResponse = "malformed_response"
)

// AuthError reports an authentication failure: bad credentials at login,
// a rejected bearer token on a protected call, or a transport failure
// while talking to the auth endpoint.
type AuthError struct {
	Reason string
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("auth: %s: %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("auth: %s", e.Reason)
}

// ValidationError reports a client-side validation failure. It is produced
// before any network call is attempted and never originates from the server.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// SubmissionError reports a failed protected call: transport failure,
// a non-2xx response, or a response body that does not match the
// expected shape.
type SubmissionError struct {
	Kind       string
	HTTPStatus int
	Detail     string
}

func (e *SubmissionError) Error() string {
	switch {
	case e.HTTPStatus != 0 && e.Detail != "":
		return fmt.Sprintf("submission: %s (HTTP %d): %s", e.Kind, e.HTTPStatus, e.Detail)
	case e.HTTPStatus != 0:
		return fmt.Sprintf("submission: %s (HTTP %d)", e.Kind, e.HTTPStatus)
	case e.Detail != "":
		return fmt.Sprintf("submission: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("submission: %s", e.Kind)
}
