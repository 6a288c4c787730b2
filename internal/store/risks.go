package store

import (
	"context"
	"fmt"

	"github.com/robby/octoops/internal/domain"
)

// FetchRisks replaces the local risk list wholesale with the server
// response. No-op without a loaded project.
func (s *Store) FetchRisks(ctx context.Context) {
	pid := s.projectID()
	if pid == "" {
		return
	}
	risks, err := s.gw.Risks(ctx, pid)
	if err != nil {
		s.log.Error("fetch risks failed", "projectId", pid, "err", err)
		return
	}
	s.mu.Lock()
	s.risks = risks
	s.mu.Unlock()
	s.notify()
}

// AddRisk records a new risk. The store seeds the client-side defaults -
// generated id, detection timestamp, unresolved - then persists through
// the risk-creation endpoint and keeps the server record. Raises exactly
// one Risk agent activation and one warning notification.
func (s *Store) AddRisk(ctx context.Context, r domain.Risk) {
	pid := s.projectID()
	if pid == "" {
		s.log.Warn("add risk skipped: no project")
		return
	}

	if r.ID == "" {
		r.ID = s.newID()
	}
	if r.DetectedAt.IsZero() {
		r.DetectedAt = s.sched.Now()
	}
	if r.DetectedBy == "" {
		r.DetectedBy = domain.DetectedByManual
	}
	r.Resolved = false

	created, err := s.gw.CreateRisk(ctx, pid, r)
	if err != nil {
		s.log.Error("add risk failed", "title", r.Title, "err", err)
		return
	}

	s.mu.Lock()
	s.risks = append([]domain.Risk{created}, s.risks...)
	s.mu.Unlock()

	s.AddActivity(domain.AgentRisk, fmt.Sprintf("flagged risk %q", created.Title))
	s.AddNotification(domain.Notification{
		Agent:   domain.AgentRisk,
		Title:   "New Risk Detected",
		Message: fmt.Sprintf("%s (%s severity)", created.Title, created.Severity),
		Kind:    domain.NotifyWarning,
	})
	s.ActivateAgent(domain.AgentRisk, s.agentWindow)
	s.notify()
}

// ResolveRisk flips the risk to resolved locally, then persists through
// the resolve endpoint. Resolution is one-way; resolving an already
// resolved risk is a no-op. A failed backend call is logged and surfaced
// as a warning, never rolled back.
func (s *Store) ResolveRisk(ctx context.Context, id string) {
	s.mu.Lock()
	var title string
	found := false
	for i := range s.risks {
		if s.risks[i].ID == id {
			if s.risks[i].Resolved {
				s.mu.Unlock()
				return
			}
			s.risks[i].Resolved = true
			title = s.risks[i].Title
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		s.log.Warn("risk not found", "riskId", id)
		return
	}

	s.AddActivity(domain.AgentRisk, fmt.Sprintf("resolved risk %q", title))
	s.notify()

	if err := s.gw.ResolveRisk(ctx, id); err != nil {
		s.log.Error("resolve risk failed", "riskId", id, "err", err)
		s.AddNotification(domain.Notification{
			Agent:   domain.AgentRisk,
			Title:   "Resolve Not Synced",
			Message: fmt.Sprintf("%q was resolved locally but the server rejected it.", title),
			Kind:    domain.NotifyWarning,
		})
	}
}

// AnalyzeRisks runs the AI risk analysis pass and refreshes the risk
// list with its findings. The Risk agent thinks while the pass runs.
func (s *Store) AnalyzeRisks(ctx context.Context) {
	pid := s.projectID()
	if pid == "" {
		return
	}

	s.mu.Lock()
	s.agents[domain.AgentRisk] = domain.AgentThinking
	s.mu.Unlock()
	s.notify()

	found, err := s.gw.AnalyzeRisks(ctx, pid)
	if err != nil {
		s.log.Error("risk analysis failed", "projectId", pid, "err", err)
		s.mu.Lock()
		s.agents[domain.AgentRisk] = domain.AgentIdle
		s.mu.Unlock()
		s.notify()
		return
	}

	s.mu.Lock()
	s.risks = found
	s.mu.Unlock()

	s.AddActivity(domain.AgentRisk, fmt.Sprintf("completed a risk scan: %d findings", len(found)))
	s.ActivateAgent(domain.AgentRisk, s.agentWindow)
	s.notify()
}
