package session_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/farmeye-dev/farmeye/internal/api"
	"github.com/farmeye-dev/farmeye/internal/session"
	"github.com/farmeye-dev/farmeye/internal/testutil"
)

func openStore(t *testing.T, dbPath string, svc *testutil.FakeService) *session.Store {
	t.Helper()
	client := api.NewClient(svc.URL(), 5*time.Second)
	store, err := session.NewStore(dbPath, client)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoginPersistsSession(t *testing.T) {
	svc := testutil.NewFakeService(t)
	dbPath := filepath.Join(t.TempDir(), "session.db")
	store := openStore(t, dbPath, svc)

	sess, err := store.Login(context.Background(), "farmer1", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if sess.AccessToken != "AT1" || sess.RefreshToken != "RT1" {
		t.Errorf("tokens: got %q/%q, want AT1/RT1", sess.AccessToken, sess.RefreshToken)
	}
	if !store.IsAuthenticated() {
		t.Error("IsAuthenticated should be true after login")
	}
	if store.CurrentToken() != "AT1" {
		t.Errorf("CurrentToken: got %q, want AT1", store.CurrentToken())
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	svc := testutil.NewFakeService(t)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	store := openStore(t, dbPath, svc)
	if _, err := store.Login(context.Background(), "farmer1", "secret123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := openStore(t, dbPath, svc)
	if !reopened.IsAuthenticated() {
		t.Error("session should survive a restart")
	}
	if reopened.CurrentToken() != "AT1" {
		t.Errorf("CurrentToken after restart: got %q, want AT1", reopened.CurrentToken())
	}
	if reopened.RefreshToken() != "RT1" {
		t.Errorf("RefreshToken after restart: got %q, want RT1", reopened.RefreshToken())
	}
}

func TestFailedLoginPersistsNothing(t *testing.T) {
	svc := testutil.NewFakeService(t)
	svc.LoginStatus = http.StatusUnauthorized
	svc.LoginBody = `{"detail":"invalid credentials"}`
	dbPath := filepath.Join(t.TempDir(), "session.db")

	store := openStore(t, dbPath, svc)
	_, err := store.Login(context.Background(), "farmer1", "wrong")

	var authErr *api.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("failed login must not leave a session in memory")
	}

	reopened := openStore(t, dbPath, svc)
	if reopened.IsAuthenticated() {
		t.Error("failed login must not leave a session persisted")
	}
}

func TestLogoutClearsBothTokens(t *testing.T) {
	svc := testutil.NewFakeService(t)
	dbPath := filepath.Join(t.TempDir(), "session.db")

	store := openStore(t, dbPath, svc)
	if _, err := store.Login(context.Background(), "farmer1", "secret123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if store.IsAuthenticated() {
		t.Error("IsAuthenticated should be false immediately after logout")
	}
	if store.CurrentToken() != "" || store.RefreshToken() != "" {
		t.Error("both tokens should be cleared")
	}

	reopened := openStore(t, dbPath, svc)
	if reopened.IsAuthenticated() || reopened.RefreshToken() != "" {
		t.Error("logout should clear persisted tokens")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc := testutil.NewFakeService(t)
	dbPath := filepath.Join(t.TempDir(), "session.db")
	store := openStore(t, dbPath, svc)

	if err := store.Logout(); err != nil {
		t.Fatalf("Logout when logged out failed: %v", err)
	}
	if err := store.Logout(); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
}

func TestSuccessiveLoginsOverwrite(t *testing.T) {
	svc := testutil.NewFakeService(t)
	dbPath := filepath.Join(t.TempDir(), "session.db")
	store := openStore(t, dbPath, svc)

	if _, err := store.Login(context.Background(), "farmer1", "secret123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	svc.LoginBody = `{"access_token":"AT2","refresh_token":"RT2","token_type":"bearer"}`
	if _, err := store.Login(context.Background(), "farmer1", "secret123"); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	if store.CurrentToken() != "AT2" {
		t.Errorf("CurrentToken: got %q, want AT2", store.CurrentToken())
	}

	reopened := openStore(t, dbPath, svc)
	if reopened.CurrentToken() != "AT2" || reopened.RefreshToken() != "RT2" {
		t.Errorf("persisted tokens: got %q/%q, want AT2/RT2", reopened.CurrentToken(), reopened.RefreshToken())
	}
}
