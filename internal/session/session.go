// Package session persists the authenticated identity and the transient
// onboarding draft across runs. Both live as JSON files under the user
// config directory, keyed by fixed names.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robby/octoops/internal/domain"
)

// ErrNoSession indicates no persisted session exists.
var ErrNoSession = errors.New("no session")

// ErrNoDraft indicates no persisted onboarding draft exists.
var ErrNoDraft = errors.New("no onboarding draft")

const (
	sessionFile = "session.json"
	draftFile   = "onboarding_draft.json"
)

// Store reads and writes the persisted client-side identity state.
type Store struct {
	dir string
}

// NewStore creates a session store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the per-user config directory for octoops.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "octoops"), nil
}

// Load rehydrates the persisted session, returning ErrNoSession if none
// has been saved.
func (s *Store) Load() (domain.Session, error) {
	var sess domain.Session
	if err := s.read(sessionFile, &sess, ErrNoSession); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Save persists the session identity.
func (s *Store) Save(sess domain.Session) error {
	return s.write(sessionFile, sess)
}

// Clear removes the persisted session. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	return s.remove(sessionFile)
}

// LoadDraft rehydrates the onboarding draft saved during the
// signup-to-onboarding handoff.
func (s *Store) LoadDraft() (domain.OnboardingDraft, error) {
	var draft domain.OnboardingDraft
	if err := s.read(draftFile, &draft, ErrNoDraft); err != nil {
		return domain.OnboardingDraft{}, err
	}
	return draft, nil
}

// SaveDraft persists the onboarding draft.
func (s *Store) SaveDraft(draft domain.OnboardingDraft) error {
	return s.write(draftFile, draft)
}

// ClearDraft removes the onboarding draft once onboarding completes.
func (s *Store) ClearDraft() error {
	return s.remove(draftFile)
}

func (s *Store) read(name string, out any, missing error) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return missing
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o600)
}

func (s *Store) remove(name string) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}
