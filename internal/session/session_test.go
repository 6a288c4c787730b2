package session

import (
	"testing"

	"github.com/robby/octoops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	sess := domain.Session{
		UserID: "u1",
		Email:  "owner@x.com",
		Name:   "Owner",
		Role:   domain.RoleOwner,
	}
	require.NoError(t, s.Save(sess))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestSessionClear(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Clearing with nothing saved is fine.
	require.NoError(t, s.Clear())

	require.NoError(t, s.Save(domain.Session{UserID: "u1"}))
	require.NoError(t, s.Clear())

	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDraftRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.LoadDraft()
	assert.ErrorIs(t, err, ErrNoDraft)

	draft := domain.OnboardingDraft{OwnerEmail: "owner@x.com", OwnerName: "Owner"}
	require.NoError(t, s.SaveDraft(draft))

	got, err := s.LoadDraft()
	require.NoError(t, err)
	assert.Equal(t, draft, got)

	require.NoError(t, s.ClearDraft())
	_, err = s.LoadDraft()
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestDraftIndependentOfSession(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(domain.Session{UserID: "u1"}))
	require.NoError(t, s.SaveDraft(domain.OnboardingDraft{OwnerEmail: "o@x.com"}))
	require.NoError(t, s.Clear())

	// Session gone, draft survives the navigation boundary.
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	draft, err := s.LoadDraft()
	require.NoError(t, err)
	assert.Equal(t, "o@x.com", draft.OwnerEmail)
}
