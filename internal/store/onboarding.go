package store

import (
	"context"
	"fmt"

	"github.com/robby/octoops/internal/domain"
	"github.com/robby/octoops/internal/gateway"
)

// Onboarding step names, in execution order. Each step depends on the
// previous one succeeding; a failed launch reports the step it died in
// so the caller can resume rather than assume atomicity.
const (
	StepEnsureOwner   = "ensure-owner"
	StepCreateProject = "create-project"
	StepSendInvites   = "send-invites"
	StepGenerateTasks = "generate-tasks"
	StepActivate      = "activate"
)

// OnboardingInvite is one requested team invitation.
type OnboardingInvite struct {
	Email     string
	Role      domain.Role
	Specialty string
}

// OnboardingData is the input to the launch sequence.
type OnboardingData struct {
	OwnerName  string
	OwnerEmail string
	Project    domain.Project // name, description, deadline; merged over the preview draft
	Invites    []OnboardingInvite
}

// OnboardingResult reports how far the launch got. Partial completion is
// never rolled back: a created project persists even when a later step
// fails.
type OnboardingResult struct {
	CompletedSteps []string
	FailedInvites  []string // emails whose invite call failed; never fatal
	Project        domain.Project
}

// CompleteOnboarding runs the multi-step launch sequence: ensure the
// owner identity exists, create the project, send the team invites,
// trigger AI task generation, and activate the project. This is the one
// store action that returns its error, so the onboarding UI can branch
// its own messaging; the error wraps the name of the failing step.
func (s *Store) CompleteOnboarding(ctx context.Context, data OnboardingData) (OnboardingResult, error) {
	var result OnboardingResult

	// Perceived-activity UX: every agent lights up while the launch runs.
	for _, name := range domain.AllAgents() {
		s.ActivateAgent(name, s.agentWindow)
	}

	// Step 1: ensure the owner exists server-side. A conflict means the
	// identity is already registered; fall back to login by identifier.
	sess, err := s.gw.Signup(ctx, gateway.SignupInput{
		Email: data.OwnerEmail,
		Name:  data.OwnerName,
		Role:  domain.RoleOwner,
	})
	if gateway.IsConflict(err) {
		sess, err = s.gw.Login(ctx, data.OwnerEmail)
	}
	if err != nil {
		return result, fmt.Errorf("onboarding step %s: %w", StepEnsureOwner, err)
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	result.CompletedSteps = append(result.CompletedSteps, StepEnsureOwner)

	// Step 2: create the project from the preview draft merged with the
	// launch data.
	s.mu.Lock()
	base := s.preview
	s.mu.Unlock()
	if data.Project.Name != "" {
		base.Name = data.Project.Name
	}
	if data.Project.Description != "" {
		base.Description = data.Project.Description
	}
	if data.Project.Deadline != nil {
		base.Deadline = data.Project.Deadline
	}
	base.OwnerID = sess.UserID
	base.Status = domain.ProjectStatusLaunching

	created, err := s.gw.CreateProject(ctx, base)
	if err != nil {
		return result, fmt.Errorf("onboarding step %s: %w", StepCreateProject, err)
	}
	s.mu.Lock()
	s.project = &created
	s.preview = domain.Project{}
	s.mu.Unlock()
	s.switchRoom("", created.ID)
	s.notify()
	result.Project = created
	result.CompletedSteps = append(result.CompletedSteps, StepCreateProject)

	// Step 3: send invites. Independent failures are collected, not
	// fatal - one bad email must not block a project that already exists.
	for _, inv := range data.Invites {
		if inv.Email == "" {
			continue
		}
		invite, err := s.gw.Invite(ctx, created.ID, gateway.InviteInput{
			Email:     inv.Email,
			Role:      inv.Role,
			Specialty: inv.Specialty,
		})
		if err != nil {
			s.log.Error("onboarding invite failed", "email", inv.Email, "err", err)
			result.FailedInvites = append(result.FailedInvites, inv.Email)
			continue
		}
		s.mu.Lock()
		s.invites = append([]domain.PendingInvite{invite}, s.invites...)
		s.mu.Unlock()
	}
	result.CompletedSteps = append(result.CompletedSteps, StepSendInvites)

	// Step 4: seed the initial task breakdown and pick up the result.
	if _, err := s.gw.GenerateTasks(ctx, created.ID); err != nil {
		return result, fmt.Errorf("onboarding step %s: %w", StepGenerateTasks, err)
	}
	s.FetchTasks(ctx)
	result.CompletedSteps = append(result.CompletedSteps, StepGenerateTasks)

	// Step 5: mark the project active and start the heartbeat.
	active := created
	active.Status = domain.ProjectStatusActive
	updated, err := s.gw.UpdateProject(ctx, active)
	if err != nil {
		return result, fmt.Errorf("onboarding step %s: %w", StepActivate, err)
	}
	s.mu.Lock()
	s.project = &updated
	s.hydrated = true
	s.mu.Unlock()
	result.Project = updated
	result.CompletedSteps = append(result.CompletedSteps, StepActivate)

	s.StartAgentHeartbeat()
	s.AddActivity(domain.AgentPlanner, fmt.Sprintf("launched project %q", updated.Name))
	s.AddNotification(domain.Notification{
		Agent:   domain.AgentPlanner,
		Title:   "Project Launched",
		Message: fmt.Sprintf("%q is live. The team has been invited and initial tasks are ready.", updated.Name),
		Kind:    domain.NotifySuccess,
	})
	s.notify()

	return result, nil
}
