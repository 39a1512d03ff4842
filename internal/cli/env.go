// env.go wires the shared dependencies commands need: configuration,
// the HTTP client, the session store, and the event log.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/farmeye-dev/farmeye/internal/api"
	"github.com/farmeye-dev/farmeye/internal/config"
	"github.com/farmeye-dev/farmeye/internal/log"
	"github.com/farmeye-dev/farmeye/internal/session"
)

// env holds the constructed dependencies for one command invocation.
type env struct {
	home   string
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	logger *log.Logger
}

// newEnv builds the command environment. A missing config file falls back
// to defaults; run "farmeye init" to persist one.
func newEnv() (*env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	cfg, err := config.ReadConfig(home)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	client := api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second)

	dir, err := config.Dir(home)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(filepath.Join(dir, "session.db"), client)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	logger, err := log.NewLogger(home)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &env{
		home:   home,
		cfg:    cfg,
		client: client,
		store:  store,
		logger: logger,
	}, nil
}

// Close releases the environment's resources.
func (e *env) Close() {
	_ = e.store.Close()
}

// requireAuth fails fast when no session is held, so protected commands
// never attempt an unauthenticated request.
func (e *env) requireAuth() error {
	if !e.store.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'farmeye login' first")
	}
	return nil
}
