package main

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	credCookieKey       = "sessionCookie"
	credLastVerifiedKey = "lastVerifiedAt"

	sessionStaleAfter = 7 * 24 * time.Hour
)

// validateCookieShape rejects cookies that cannot possibly authenticate:
// both the csrf token field and the session identifier must be present.
// Runs before any network call.
func validateCookieShape(cookie string) error {
	trimmed := strings.TrimSpace(cookie)
	if trimmed == "" {
		return &apiError{kind: errValidation, message: "cookie is empty"}
	}
	if csrfFromCookie(trimmed) == "" {
		return &apiError{kind: errValidation, message: "cookie is missing a csrftoken field"}
	}
	if !hasSessionToken(trimmed) {
		return &apiError{kind: errValidation, message: "cookie is missing a LEETCODE_SESSION field"}
	}
	return nil
}

func hasSessionToken(cookie string) bool {
	return strings.Contains(strings.ToUpper(cookie), "LEETCODE_SESSION=")
}

// credentialStore is the single source of truth for the session cookie.
// Values are cached in memory and mirrored to a sqlite file in the user
// config dir; Reload picks up changes written by another process.
type credentialStore struct {
	db   *sql.DB
	path string

	mu             sync.Mutex
	cookie         string
	lastVerifiedAt time.Time
}

func openCredentialStore() (*credentialStore, error) {
	return openCredentialStoreAt(resolveConfigDir())
}

func openCredentialStoreAt(dir string) (*credentialStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	sqlitePath := filepath.Join(dir, "credentials.sqlite")
	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, err
	}
	if err := migrateCredentialStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store := &credentialStore{db: db, path: sqlitePath}
	if err := store.Reload(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func migrateCredentialStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS credentials (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("credential store migration failed: %w", err)
		}
	}
	return nil
}

func (s *credentialStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *credentialStore) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *credentialStore) set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Reload refreshes the in-memory cache from sqlite. Called at startup and
// before auth-sensitive reads, standing in for a storage change
// notification.
func (s *credentialStore) Reload() error {
	cookie, err := s.get(credCookieKey)
	if err != nil {
		return err
	}
	raw, err := s.get(credLastVerifiedKey)
	if err != nil {
		return err
	}
	var verified time.Time
	if raw != "" {
		if millis, err := strconv.ParseInt(raw, 10, 64); err == nil && millis > 0 {
			verified = time.UnixMilli(millis)
		}
	}

	s.mu.Lock()
	s.cookie = cookie
	s.lastVerifiedAt = verified
	s.mu.Unlock()
	return nil
}

func (s *credentialStore) Cookie() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookie
}

func (s *credentialStore) SetCookie(cookie string) error {
	if err := s.set(credCookieKey, cookie); err != nil {
		return err
	}
	s.mu.Lock()
	s.cookie = cookie
	s.mu.Unlock()
	return nil
}

func (s *credentialStore) DeleteCookie() error {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE key = ?`, credCookieKey); err != nil {
		return err
	}
	s.mu.Lock()
	s.cookie = ""
	s.mu.Unlock()
	return nil
}

func (s *credentialStore) IsLoggedIn() bool {
	return strings.TrimSpace(s.Cookie()) != ""
}

func (s *credentialStore) MarkVerified(at time.Time) error {
	if err := s.set(credLastVerifiedKey, strconv.FormatInt(at.UnixMilli(), 10)); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastVerifiedAt = at
	s.mu.Unlock()
	return nil
}

func (s *credentialStore) LastVerifiedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastVerifiedAt
}

// SessionAge returns how long ago the session was last verified; ok is
// false when it never was.
func (s *credentialStore) SessionAge() (time.Duration, bool) {
	verified := s.LastVerifiedAt()
	if verified.IsZero() {
		return 0, false
	}
	return time.Since(verified), true
}

// IsSessionPossiblyExpired is a heuristic nudge, not a gate: requests are
// still attempted regardless.
func (s *credentialStore) IsSessionPossiblyExpired() bool {
	age, ok := s.SessionAge()
	if !ok {
		return true
	}
	return age >= sessionStaleAfter
}

type authStatus struct {
	Valid    bool
	Username string
	Err      string
}

// VerifyAuth probes the session identity and, on success, refreshes the
// last-verified timestamp.
func (c *leetClient) VerifyAuth() authStatus {
	if err := c.creds.Reload(); err != nil {
		c.log.Warn().Err(err).Msg("credential reload failed")
	}
	if !c.creds.IsLoggedIn() {
		return authStatus{Err: "no session cookie stored"}
	}
	user, _ := c.GetUser()
	if user == nil {
		return authStatus{Err: "session expired or invalid"}
	}
	if err := c.creds.MarkVerified(time.Now()); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist verification timestamp")
	}
	return authStatus{Valid: true, Username: user.Username}
}
