package store

import (
	"context"

	"github.com/robby/octoops/internal/domain"
)

// FetchProject loads the current project for the authenticated session.
// On success it cascades to task, team, and risk fetches, joins the
// realtime room, and starts the agent heartbeat. On failure the project
// stays nil but the store still becomes hydrated so loading UI can
// resolve.
func (s *Store) FetchProject(ctx context.Context) {
	userID := s.Session().UserID

	projects, err := s.gw.ProjectsForUser(ctx, userID)

	s.mu.Lock()
	s.hydrated = true
	if err != nil {
		s.mu.Unlock()
		s.log.Error("fetch project failed", "userId", userID, "err", err)
		s.notify()
		return
	}
	if len(projects) == 0 || projects[0].Archived() {
		s.project = nil
		s.mu.Unlock()
		s.notify()
		return
	}

	p := projects[0]
	var oldID string
	if s.project != nil {
		oldID = s.project.ID
	}
	s.project = &p
	s.mu.Unlock()

	s.switchRoom(oldID, p.ID)
	s.notify()

	s.FetchTasks(ctx)
	s.FetchTeam(ctx)
	s.FetchRisks(ctx)
	s.StartAgentHeartbeat()
}

// UpdateProject applies a partial update. Before a project exists the
// patch only merges into the local preview draft, supporting
// pre-creation editing during onboarding. With a project loaded, the
// merged full object is sent to the gateway and local state is replaced
// with the server's authoritative response. Merge semantics: fields
// absent from the patch are never lost.
func (s *Store) UpdateProject(ctx context.Context, patch domain.ProjectPatch) {
	s.mu.Lock()
	if s.project == nil {
		patch.Apply(&s.preview)
		s.mu.Unlock()
		s.notify()
		return
	}
	merged := *s.project
	patch.Apply(&merged)
	s.mu.Unlock()

	updated, err := s.gw.UpdateProject(ctx, merged)
	if err != nil {
		s.log.Error("update project failed", "projectId", merged.ID, "err", err)
		return
	}

	if updated.Archived() {
		s.ClearProject()
		return
	}

	s.mu.Lock()
	s.project = &updated
	s.mu.Unlock()
	s.AddActivity(domain.AgentPlanner, "updated project details")
	s.notify()
}

// ClearProject resets the store to the null-project state: the realtime
// room is left, the heartbeat stops being meaningful, and entity lists
// are dropped. Hydration is untouched; the app is awaiting a new
// onboarding, not reloading.
func (s *Store) ClearProject() {
	s.mu.Lock()
	var oldID string
	if s.project != nil {
		oldID = s.project.ID
	}
	s.project = nil
	s.tasks = nil
	s.risks = nil
	s.team = nil
	s.invites = nil
	if s.heartbeat != nil {
		s.heartbeat.Stop()
		s.heartbeat = nil
	}
	s.mu.Unlock()

	s.switchRoom(oldID, "")
	s.notify()
}
