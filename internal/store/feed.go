package store

import (
	"github.com/robby/octoops/internal/domain"
)

// AddActivity appends an entry to the activity feed, synthesizing its id
// and timestamps, and truncates the feed to the newest entries.
func (s *Store) AddActivity(agent domain.AgentName, action string) {
	now := s.sched.Now()
	entry := domain.Activity{
		ID:        s.newID(),
		Agent:     agent,
		Action:    action,
		Time:      "Just now",
		CreatedAt: now,
	}

	s.mu.Lock()
	s.activities = append([]domain.Activity{entry}, s.activities...)
	if len(s.activities) > activityCap {
		s.activities = s.activities[:activityCap]
	}
	s.mu.Unlock()
	s.notify()
}

// AddNotification prepends a notification, synthesizing id and
// timestamp, truncates the list to the newest entries, and surfaces the
// new entry as an ephemeral toast for the fixed display window. The
// toast auto-dismissing does not touch the notification's read state.
func (s *Store) AddNotification(n domain.Notification) {
	n.ID = s.newID()
	n.CreatedAt = s.sched.Now()
	n.Read = false

	s.mu.Lock()
	s.notifications = append([]domain.Notification{n}, s.notifications...)
	if len(s.notifications) > notificationCap {
		for _, dropped := range s.notifications[notificationCap:] {
			s.stopToastLocked(dropped.ID)
		}
		s.notifications = s.notifications[:notificationCap]
	}

	id := n.ID
	s.toasts = append(s.toasts, id)
	s.toastTimers[id] = s.sched.After(s.toastWindow, func() {
		s.mu.Lock()
		s.stopToastLocked(id)
		s.mu.Unlock()
		s.notify()
	})
	s.mu.Unlock()
	s.notify()
}

// Toasts returns the notifications currently surfaced as toasts, oldest
// first.
func (s *Store) Toasts() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, id := range s.toasts {
		for _, n := range s.notifications {
			if n.ID == id {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// AcknowledgeToast dismisses a toast explicitly and marks its
// notification read, unlike the auto-dismiss which leaves read alone.
func (s *Store) AcknowledgeToast(id string) {
	s.mu.Lock()
	s.stopToastLocked(id)
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// MarkNotificationRead marks one notification read.
func (s *Store) MarkNotificationRead(id string) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// ClearNotifications drops all notifications and any live toasts.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	s.notifications = nil
	s.toasts = nil
	for id, h := range s.toastTimers {
		h.Stop()
		delete(s.toastTimers, id)
	}
	s.mu.Unlock()
	s.notify()
}

// stopToastLocked removes a toast and cancels its dismissal timer. Lock
// must be held.
func (s *Store) stopToastLocked(id string) {
	if h, ok := s.toastTimers[id]; ok {
		h.Stop()
		delete(s.toastTimers, id)
	}
	kept := s.toasts[:0]
	for _, t := range s.toasts {
		if t != id {
			kept = append(kept, t)
		}
	}
	s.toasts = kept
}
