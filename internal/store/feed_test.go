package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/octoops/internal/domain"
)

func TestActivityFeedCapsAtNewest(t *testing.T) {
	s, _ := newTestStore(t, &fakeGateway{})

	for i := 0; i < 60; i++ {
		s.AddActivity(domain.AgentPlanner, fmt.Sprintf("action %d", i))
	}

	acts := s.Activities()
	require.Len(t, acts, 50)
	assert.Equal(t, "action 59", acts[0].Action, "newest first")
	assert.Equal(t, "action 10", acts[49].Action, "oldest ten fell off")
}

func TestActivityEntriesAreSynthesized(t *testing.T) {
	s, sched := newTestStore(t, &fakeGateway{})

	s.AddActivity(domain.AgentRisk, "scanned the backlog")

	acts := s.Activities()
	require.Len(t, acts, 1)
	assert.NotEmpty(t, acts[0].ID)
	assert.Equal(t, "Just now", acts[0].Time)
	assert.Equal(t, sched.Now(), acts[0].CreatedAt)
}

func TestNotificationListCapsAtNewest(t *testing.T) {
	s, _ := newTestStore(t, &fakeGateway{})

	for i := 0; i < 25; i++ {
		s.AddNotification(domain.Notification{
			Agent: domain.AgentPlanner,
			Title: fmt.Sprintf("note %d", i),
			Kind:  domain.NotifyInfo,
		})
	}

	notifs := s.Notifications()
	require.Len(t, notifs, 20)
	assert.Equal(t, "note 24", notifs[0].Title)
	assert.Equal(t, "note 5", notifs[19].Title)
}

func TestToastAutoDismissLeavesUnread(t *testing.T) {
	s, sched := newTestStore(t, &fakeGateway{})

	s.AddNotification(domain.Notification{Title: "Heads up", Kind: domain.NotifyWarning})

	toasts := s.Toasts()
	require.Len(t, toasts, 1)
	id := toasts[0].ID

	sched.Advance(5 * time.Second)

	assert.Empty(t, s.Toasts(), "toast clears after the display window")
	notifs := s.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, id, notifs[0].ID)
	assert.False(t, notifs[0].Read, "auto-dismiss never marks read")
}

func TestAcknowledgeToastMarksRead(t *testing.T) {
	s, _ := newTestStore(t, &fakeGateway{})

	s.AddNotification(domain.Notification{Title: "Act on me", Kind: domain.NotifyInfo})
	id := s.Toasts()[0].ID

	s.AcknowledgeToast(id)

	assert.Empty(t, s.Toasts())
	notifs := s.Notifications()
	require.Len(t, notifs, 1)
	assert.True(t, notifs[0].Read, "explicit dismissal is an acknowledgment")
}

func TestToastSurvivesUntilWindowElapses(t *testing.T) {
	s, sched := newTestStore(t, &fakeGateway{})

	s.AddNotification(domain.Notification{Title: "Lingering", Kind: domain.NotifyInfo})

	sched.Advance(4 * time.Second)
	assert.Len(t, s.Toasts(), 1)

	sched.Advance(1 * time.Second)
	assert.Empty(t, s.Toasts())
}

func TestMarkNotificationRead(t *testing.T) {
	s, _ := newTestStore(t, &fakeGateway{})

	s.AddNotification(domain.Notification{Title: "One", Kind: domain.NotifyInfo})
	s.AddNotification(domain.Notification{Title: "Two", Kind: domain.NotifyInfo})
	notifs := s.Notifications()
	require.Len(t, notifs, 2)

	s.MarkNotificationRead(notifs[1].ID)

	notifs = s.Notifications()
	assert.False(t, notifs[0].Read)
	assert.True(t, notifs[1].Read)
}

func TestClearNotificationsDropsToastsToo(t *testing.T) {
	s, _ := newTestStore(t, &fakeGateway{})

	s.AddNotification(domain.Notification{Title: "A", Kind: domain.NotifyInfo})
	s.AddNotification(domain.Notification{Title: "B", Kind: domain.NotifyInfo})
	require.Len(t, s.Toasts(), 2)

	s.ClearNotifications()

	assert.Empty(t, s.Notifications())
	assert.Empty(t, s.Toasts())
}
