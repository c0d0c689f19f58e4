// Package session stores the athlete's API session token between CLI invocations.
//
// A session is created with a lifetime taken from the session configuration: RememberMeDays when the user
// asks to be remembered, DefaultTimeoutHours otherwise. Expired sessions are treated as absent.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/traintrack-sc/athlete/internal/config"
)

// Session is the persisted session record
type Session struct {
	Token      string    `json:"token"`
	RememberMe bool      `json:"remember_me"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry time
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// FileStore keeps the session in a JSON file readable only by the current user.
// It is safe for concurrent use within one process.
type FileStore struct {
	path     string
	settings config.Session
	clock    clockwork.Clock

	mu sync.Mutex
}

// NewFileStore returns a store backed by the file at path. The file is created on the first Save.
func NewFileStore(path string, settings config.Session, clock clockwork.Clock) *FileStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FileStore{
		path:     path,
		settings: settings,
		clock:    clock,
	}
}

// Path returns the location of the session file
func (s *FileStore) Path() string {
	return s.path
}

// Save stores token as the current session, replacing any existing session
func (s *FileStore) Save(token string, rememberMe bool) (*Session, error) {
	if token == "" {
		return nil, errors.New("session token cannot be empty")
	}

	sess := newSession(token, rememberMe, s.settings, s.clock.Now())

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	// atomic replace
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to replace session file: %w", err)
	}

	return sess, nil
}

// Load returns the stored session, or nil if there is no session file.
// Expired sessions are returned as stored; callers check Expired.
func (s *FileStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session file %s: %w", s.path, err)
	}
	return &sess, nil
}

// SessionToken returns the token of the current, unexpired session.
// Unreadable session files are treated as no session.
func (s *FileStore) SessionToken() (string, bool) {
	sess, err := s.Load()
	if err != nil || sess == nil {
		return "", false
	}
	if sess.Expired(s.clock.Now()) {
		return "", false
	}
	return sess.Token, true
}

// Clear removes the stored session. Clearing when there is no session is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory session store
type MemoryStore struct {
	settings config.Session
	clock    clockwork.Clock

	mu      sync.Mutex
	session *Session
}

func NewMemoryStore(settings config.Session, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		settings: settings,
		clock:    clock,
	}
}

func (m *MemoryStore) Save(token string, rememberMe bool) *Session {
	sess := newSession(token, rememberMe, m.settings, m.clock.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = sess
	return sess
}

func (m *MemoryStore) SessionToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || m.session.Expired(m.clock.Now()) {
		return "", false
	}
	return m.session.Token, true
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
}

func newSession(token string, rememberMe bool, settings config.Session, now time.Time) *Session {
	lifetime := settings.DefaultTimeout()
	if rememberMe {
		lifetime = settings.RememberMe()
	}
	return &Session{
		Token:      token,
		RememberMe: rememberMe,
		CreatedAt:  now.UTC(),
		ExpiresAt:  now.Add(lifetime).UTC(),
	}
}
