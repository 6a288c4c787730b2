package domain

import "time"

// ProjectPatch is a partial project update. Nil fields are left untouched
// when applied, preserving merge (not replace) semantics for outgoing
// payloads.
type ProjectPatch struct {
	Name                *string    `json:"name,omitempty"`
	Description         *string    `json:"description,omitempty"`
	HealthScore         *int       `json:"healthScore,omitempty"`
	Progress            *int       `json:"progress,omitempty"`
	MilestonesCompleted *int       `json:"milestonesCompleted,omitempty"`
	TotalMilestones     *int       `json:"totalMilestones,omitempty"`
	Deadline            *time.Time `json:"deadline,omitempty"`
	Status              *string    `json:"status,omitempty"`
}

// Apply merges the patch into p, leaving absent fields alone.
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.HealthScore != nil {
		p.HealthScore = *pp.HealthScore
	}
	if pp.Progress != nil {
		p.Progress = *pp.Progress
	}
	if pp.MilestonesCompleted != nil {
		p.MilestonesCompleted = *pp.MilestonesCompleted
	}
	if pp.TotalMilestones != nil {
		p.TotalMilestones = *pp.TotalMilestones
	}
	if pp.Deadline != nil {
		p.Deadline = pp.Deadline
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
}

// TaskPatch is a partial task update sent to the backend.
type TaskPatch struct {
	Title                *string       `json:"title,omitempty"`
	Status               *TaskStatus   `json:"status,omitempty"`
	Priority             *TaskPriority `json:"priority,omitempty"`
	Assignee             *string       `json:"assignee,omitempty"`
	Deadline             *time.Time    `json:"deadline,omitempty"`
	Description          *string       `json:"description,omitempty"`
	Milestone            *string       `json:"milestone,omitempty"`
	Attachments          *[]string     `json:"attachments,omitempty"`
	TimerStartedAt       *time.Time    `json:"timerStartedAt,omitempty"`
	ReviewedBy           *string       `json:"reviewedBy,omitempty"`
	RejectionNote        *string       `json:"rejectionNote,omitempty"`
	RejectionAttachments *[]string     `json:"rejectionAttachments,omitempty"`
}

// Apply merges the patch into t, leaving absent fields alone.
func (tp TaskPatch) Apply(t *Task) {
	if tp.Title != nil {
		t.Title = *tp.Title
	}
	if tp.Status != nil {
		t.Status = *tp.Status
	}
	if tp.Priority != nil {
		t.Priority = *tp.Priority
	}
	if tp.Assignee != nil {
		t.Assignee = *tp.Assignee
	}
	if tp.Deadline != nil {
		t.Deadline = tp.Deadline
	}
	if tp.Description != nil {
		t.Description = *tp.Description
	}
	if tp.Milestone != nil {
		t.Milestone = *tp.Milestone
	}
	if tp.Attachments != nil {
		t.Attachments = *tp.Attachments
	}
	if tp.TimerStartedAt != nil {
		t.TimerStartedAt = tp.TimerStartedAt
	}
	if tp.ReviewedBy != nil {
		t.ReviewedBy = *tp.ReviewedBy
	}
	if tp.RejectionNote != nil {
		t.RejectionNote = *tp.RejectionNote
	}
	if tp.RejectionAttachments != nil {
		t.RejectionAttachments = *tp.RejectionAttachments
	}
}

// Ptr returns a pointer to v, a convenience for building patches.
func Ptr[T any](v T) *T { return &v }
