package store

import (
	"context"
	"fmt"

	"github.com/robby/octoops/internal/domain"
)

// FetchTasks replaces the local task list wholesale with the server
// response. No-op without a loaded project. Full refresh, not a merge:
// anything the server does not return is authoritatively absent.
func (s *Store) FetchTasks(ctx context.Context) {
	pid := s.projectID()
	if pid == "" {
		return
	}
	tasks, err := s.gw.Tasks(ctx, pid)
	if err != nil {
		s.log.Error("fetch tasks failed", "projectId", pid, "err", err)
		return
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	s.notify()
}

// AddTask persists a new task and prepends the server record to the
// local list (newest first). projectID may be empty to target the loaded
// project; during onboarding a not-yet-loaded project id can be passed
// explicitly.
func (s *Store) AddTask(ctx context.Context, t domain.Task, projectID string) {
	if projectID == "" {
		projectID = s.projectID()
	}
	if projectID == "" {
		s.log.Warn("add task skipped: no project")
		return
	}

	created, err := s.gw.CreateTask(ctx, projectID, t)
	if err != nil {
		s.log.Error("add task failed", "title", t.Title, "err", err)
		return
	}

	s.mu.Lock()
	s.tasks = append([]domain.Task{created}, s.tasks...)
	s.mu.Unlock()

	s.AddActivity(domain.AgentPlanner, fmt.Sprintf("created task %q", created.Title))
	s.ActivateAgent(domain.AgentPlanner, s.agentWindow)
	s.notify()
}

// UpdateTask persists a partial update by id and replaces the matching
// local record with the full server record. The id match follows the
// dual-identifier rule: either of a task's two keys finds it.
func (s *Store) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) {
	updated, err := s.gw.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.Error("update task failed", "taskId", id, "err", err)
		return
	}

	s.replaceTask(id, updated)
	s.AddActivity(domain.AgentExecution, fmt.Sprintf("updated task %q", updated.Title))
	s.ActivateAgent(domain.AgentExecution, s.agentWindow)
	s.notify()
}

// DeleteTask removes the task locally first, then deletes it remotely.
// The local removal is optimistic with no undo; a failed backend call is
// logged and surfaced as a warning, never rolled back.
func (s *Store) DeleteTask(ctx context.Context, id string) {
	s.mu.Lock()
	found := false
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if domain.SameTask(t, id) {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	s.mu.Unlock()
	s.notify()

	if !found {
		return
	}
	if err := s.gw.DeleteTask(ctx, id); err != nil {
		s.log.Error("delete task failed", "taskId", id, "err", err)
		s.AddNotification(domain.Notification{
			Agent:   domain.AgentExecution,
			Title:   "Delete Not Synced",
			Message: "The task was removed locally but the server rejected the delete.",
			Kind:    domain.NotifyWarning,
		})
	}
}

// StartTask moves a todo task to in-progress, stamping the work-session
// start used by the bounded countdown display. Optimistic: the local
// transition happens first and is reverted if persistence fails.
func (s *Store) StartTask(ctx context.Context, id string) {
	now := s.sched.Now()
	prev, ok := s.transitionTask(id, func(t *domain.Task) error { return t.Start(now) })
	if !ok {
		return
	}

	patch := domain.TaskPatch{
		Status:         domain.Ptr(domain.TaskInProgress),
		TimerStartedAt: &now,
	}
	updated, err := s.gw.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.Error("start task failed, reverting", "taskId", id, "err", err)
		s.replaceTask(id, prev)
		s.notify()
		return
	}
	s.replaceTask(id, updated)
	s.AddActivity(domain.AgentExecution, fmt.Sprintf("started work on %q", updated.Title))
	s.notify()
}

// SubmitForReview optimistically flips the task to in-review before the
// network call resolves. On failure the local status is reverted, the
// failure is logged, and a warning notification is raised - the client
// must never silently desync.
func (s *Store) SubmitForReview(ctx context.Context, id string) {
	prev, ok := s.transitionTask(id, func(t *domain.Task) error { return t.Submit() })
	if !ok {
		return
	}

	submitted, err := s.gw.SubmitTask(ctx, id)
	if err != nil {
		s.log.Error("submit task failed, reverting", "taskId", id, "err", err)
		s.replaceTask(id, prev)
		s.AddNotification(domain.Notification{
			Agent:   domain.AgentExecution,
			Title:   "Submit Failed",
			Message: fmt.Sprintf("%q could not be submitted for review.", prev.Title),
			Kind:    domain.NotifyWarning,
		})
		return
	}

	s.replaceTask(id, submitted)
	s.AddActivity(domain.AgentExecution, fmt.Sprintf("submitted %q for review", submitted.Title))
	s.AddNotification(domain.Notification{
		Agent:   domain.AgentExecution,
		Title:   "Submitted for Review",
		Message: fmt.Sprintf("%q is awaiting review.", submitted.Title),
		Kind:    domain.NotifyInfo,
	})
	s.notify()
}

// ApproveTask calls the gateway approve endpoint, then marks the local
// record done with the reviewer stamped. Approving an already-done task
// is a no-op.
func (s *Store) ApproveTask(ctx context.Context, id string) {
	s.mu.Lock()
	idx := s.taskIndex(id)
	if idx < 0 || s.tasks[idx].Status == domain.TaskDone {
		s.mu.Unlock()
		return
	}
	reviewer := s.session.UserID
	s.mu.Unlock()

	if _, err := s.gw.ApproveTask(ctx, id); err != nil {
		s.log.Error("approve task failed", "taskId", id, "err", err)
		return
	}

	var title string
	s.mu.Lock()
	if idx := s.taskIndex(id); idx >= 0 {
		if err := s.tasks[idx].Approve(reviewer); err != nil {
			s.log.Warn("approve transition rejected", "taskId", id, "err", err)
		}
		title = s.tasks[idx].Title
	}
	s.mu.Unlock()

	s.AddActivity(domain.AgentExecution, fmt.Sprintf("approved %q", title))
	s.notify()
}

// RejectTask sends an in-review task back to in-progress with the
// reviewer's note and optional attachments. Optimistic with revert on
// failure, like SubmitForReview.
func (s *Store) RejectTask(ctx context.Context, id, note string, attachments []string) {
	prev, ok := s.transitionTask(id, func(t *domain.Task) error { return t.Reject(note, attachments) })
	if !ok {
		return
	}

	patch := domain.TaskPatch{
		Status:               domain.Ptr(domain.TaskInProgress),
		RejectionNote:        &note,
		RejectionAttachments: &attachments,
	}
	updated, err := s.gw.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.Error("reject task failed, reverting", "taskId", id, "err", err)
		s.replaceTask(id, prev)
		s.notify()
		return
	}

	s.replaceTask(id, updated)
	s.AddActivity(domain.AgentExecution, fmt.Sprintf("requested changes on %q", updated.Title))
	s.AddNotification(domain.Notification{
		Agent:   domain.AgentExecution,
		Title:   "Changes Requested",
		Message: fmt.Sprintf("%q was sent back with review notes.", updated.Title),
		Kind:    domain.NotifyWarning,
	})
	s.notify()
}

// BlockTask marks any non-terminal task blocked.
func (s *Store) BlockTask(ctx context.Context, id string) {
	s.setBlockState(ctx, id, func(t *domain.Task) error { return t.Block() }, domain.TaskBlocked, "blocked")
}

// UnblockTask returns a blocked task to in-progress. There is no
// auto-unblock.
func (s *Store) UnblockTask(ctx context.Context, id string) {
	s.setBlockState(ctx, id, func(t *domain.Task) error { return t.Unblock() }, domain.TaskInProgress, "unblocked")
}

func (s *Store) setBlockState(ctx context.Context, id string, apply func(*domain.Task) error, status domain.TaskStatus, verb string) {
	prev, ok := s.transitionTask(id, apply)
	if !ok {
		return
	}

	updated, err := s.gw.UpdateTask(ctx, id, domain.TaskPatch{Status: domain.Ptr(status)})
	if err != nil {
		s.log.Error("block state change failed, reverting", "taskId", id, "err", err)
		s.replaceTask(id, prev)
		s.notify()
		return
	}
	s.replaceTask(id, updated)
	s.AddActivity(domain.AgentExecution, fmt.Sprintf("%s %q", verb, updated.Title))
	s.notify()
}

// TasksFor returns the member's tasks ordered for their personal queue:
// unresolved rejections first, then in-progress, then arrival order.
func (s *Store) TasksFor(m domain.TeamMember) []domain.Task {
	s.mu.Lock()
	var mine []domain.Task
	for _, t := range s.tasks {
		if domain.AssigneeMatches(t, m) {
			mine = append(mine, t)
		}
	}
	s.mu.Unlock()

	domain.SortPersonalQueue(mine)
	return mine
}

// MemberDashboard is the member-facing task summary.
type MemberDashboard struct {
	CompletedCount int
	ActiveTask     *domain.Task
	Queue          []domain.Task
}

// MemberDashboardFor derives the member dashboard view: the done count,
// the current in-progress task, and the remaining queue.
func (s *Store) MemberDashboardFor(m domain.TeamMember) MemberDashboard {
	mine := s.TasksFor(m)

	var d MemberDashboard
	for i := range mine {
		t := mine[i]
		switch {
		case t.Status == domain.TaskDone:
			d.CompletedCount++
		case t.Status == domain.TaskInProgress && d.ActiveTask == nil:
			active := t
			d.ActiveTask = &active
		default:
			d.Queue = append(d.Queue, t)
		}
	}
	return d
}

// transitionTask applies a local state-machine transition, returning the
// previous record for revert and whether the transition happened.
func (s *Store) transitionTask(id string, apply func(*domain.Task) error) (domain.Task, bool) {
	s.mu.Lock()
	idx := s.taskIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Warn("task not found", "taskId", id)
		return domain.Task{}, false
	}
	prev := s.tasks[idx]
	if err := apply(&s.tasks[idx]); err != nil {
		s.mu.Unlock()
		s.log.Warn("transition rejected", "taskId", id, "err", err)
		return domain.Task{}, false
	}
	s.mu.Unlock()
	s.notify()
	return prev, true
}

// replaceTask swaps the record matching id (by either key) for the given
// one.
func (s *Store) replaceTask(id string, t domain.Task) {
	s.mu.Lock()
	if idx := s.taskIndex(id); idx >= 0 {
		s.tasks[idx] = t
	}
	s.mu.Unlock()
}

// taskIndex must be called with the lock held.
func (s *Store) taskIndex(id string) int {
	for i, t := range s.tasks {
		if domain.SameTask(t, id) {
			return i
		}
	}
	return -1
}
