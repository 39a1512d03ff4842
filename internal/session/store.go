package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/farmeye-dev/farmeye/internal/api"
)

// Credential keys persisted in the store.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Authenticator exchanges credentials for a Session. Satisfied by api.Client.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.Session, error)
}

// Store provides SQLite-backed persistence for the authenticated session.
// It is the single owner of the credential pair; all other components read
// the token through CurrentToken and never hold a private copy beyond one
// request.
type Store struct {
	db   *sql.DB
	auth Authenticator

	mu      sync.RWMutex
	session api.Session
}

// NewStore opens the SQLite database at dbPath, creates tables if they
// don't exist, and hydrates the in-memory session from persisted state.
func NewStore(dbPath string, auth Authenticator) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	s := &Store{db: db, auth: auth}
	if err := s.hydrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// hydrate loads persisted tokens into memory at startup.
func (s *Store) hydrate() error {
	rows, err := s.db.Query(`SELECT key, value FROM credentials`)
	if err != nil {
		return fmt.Errorf("query credentials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sess api.Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan credential: %w", err)
		}
		switch key {
		case keyAccessToken:
			sess.AccessToken = value
		case keyRefreshToken:
			sess.RefreshToken = value
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return nil
}

// Login authenticates against the service and, on success, persists the
// returned Session. A failed login leaves no session persisted or in memory.
func (s *Store) Login(ctx context.Context, username, password string) (*api.Session, error) {
	sess, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := s.persist(*sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.session = *sess
	s.mu.Unlock()

	return sess, nil
}

// persist writes both tokens in a single transaction so a partial session
// is never observable.
func (s *Store) persist(sess api.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	upsert := `INSERT INTO credentials (key, value) VALUES (?, ?)
	           ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := tx.Exec(upsert, keyAccessToken, sess.AccessToken); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write access token: %w", err)
	}
	if _, err := tx.Exec(upsert, keyRefreshToken, sess.RefreshToken); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write refresh token: %w", err)
	}

	return tx.Commit()
}

// Logout clears the persisted session and the in-memory copy. Safe to call
// when already logged out.
func (s *Store) Logout() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM credentials WHERE key IN (?, ?)`, keyAccessToken, keyRefreshToken); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear credentials: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.mu.Lock()
	s.session = api.Session{}
	s.mu.Unlock()
	return nil
}

// IsAuthenticated reports whether a non-empty access token is held.
func (s *Store) IsAuthenticated() bool {
	return s.CurrentToken() != ""
}

// CurrentToken returns the bearer token to attach to protected requests,
// or "" when unauthenticated.
func (s *Store) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// RefreshToken returns the stored refresh token, or "". No refresh flow is
// exercised yet; a rejected access token forces re-login.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.RefreshToken
}
