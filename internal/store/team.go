package store

import (
	"context"
	"fmt"

	"github.com/robby/octoops/internal/domain"
	"github.com/robby/octoops/internal/gateway"
)

// FetchTeam replaces the members and pending-invite lists wholesale with
// the server response. No-op without a loaded project.
func (s *Store) FetchTeam(ctx context.Context) {
	pid := s.projectID()
	if pid == "" {
		return
	}
	list, err := s.gw.Team(ctx, pid)
	if err != nil {
		s.log.Error("fetch team failed", "projectId", pid, "err", err)
		return
	}
	s.mu.Lock()
	s.team = list.Members
	s.invites = list.Pending
	s.mu.Unlock()
	s.notify()
}

// AddTeamMember sends an invitation and records the pending invite.
func (s *Store) AddTeamMember(ctx context.Context, email string, role domain.Role, specialty string) {
	pid := s.projectID()
	if pid == "" {
		s.log.Warn("invite skipped: no project")
		return
	}

	invite, err := s.gw.Invite(ctx, pid, gateway.InviteInput{Email: email, Role: role, Specialty: specialty})
	if err != nil {
		s.log.Error("invite failed", "email", email, "err", err)
		return
	}

	s.mu.Lock()
	s.invites = append([]domain.PendingInvite{invite}, s.invites...)
	s.mu.Unlock()

	s.AddActivity(domain.AgentCommunication, fmt.Sprintf("invited %s to the team", email))
	s.ActivateAgent(domain.AgentCommunication, s.agentWindow)
	s.notify()
}

// RemoveTeamMember removes the member locally first, then remotely. The
// local removal is optimistic; a failed backend call is logged and
// surfaced as a warning, never rolled back.
func (s *Store) RemoveTeamMember(ctx context.Context, memberID string) {
	pid := s.projectID()

	s.mu.Lock()
	found := false
	var name string
	kept := s.team[:0]
	for _, m := range s.team {
		if m.ID == memberID {
			found = true
			name = m.Name
			continue
		}
		kept = append(kept, m)
	}
	s.team = kept
	s.mu.Unlock()
	s.notify()

	if !found || pid == "" {
		return
	}

	s.AddActivity(domain.AgentCommunication, fmt.Sprintf("removed %s from the team", name))
	if err := s.gw.RemoveMember(ctx, pid, memberID); err != nil {
		s.log.Error("remove member failed", "memberId", memberID, "err", err)
		s.AddNotification(domain.Notification{
			Agent:   domain.AgentCommunication,
			Title:   "Removal Not Synced",
			Message: fmt.Sprintf("%s was removed locally but the server rejected it.", name),
			Kind:    domain.NotifyWarning,
		})
	}
}

// CancelInvite withdraws a pending invite, removing it from the pending
// list.
func (s *Store) CancelInvite(ctx context.Context, inviteID string) {
	s.mu.Lock()
	found := false
	var email string
	kept := s.invites[:0]
	for _, inv := range s.invites {
		if inv.ID == inviteID {
			found = true
			email = inv.Email
			continue
		}
		kept = append(kept, inv)
	}
	s.invites = kept
	s.mu.Unlock()
	s.notify()

	if !found {
		return
	}
	if err := s.gw.CancelInvite(ctx, inviteID); err != nil {
		s.log.Error("cancel invite failed", "inviteId", inviteID, "email", email, "err", err)
	}
}
