// Package domain defines the normalized domain types for the OctoOps backend.
// These types represent the core concepts independent of the REST API structure.
package domain

import "time"

// Project represents an OctoOps project and its rollup metrics.
type Project struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Description         string     `json:"description,omitempty"`
	HealthScore         int        `json:"healthScore"` // 0-100
	Progress            int        `json:"progress"`    // 0-100
	MilestonesCompleted int        `json:"milestonesCompleted"`
	TotalMilestones     int        `json:"totalMilestones"`
	Deadline            *time.Time `json:"deadline,omitempty"`
	Status              string     `json:"status"`
	OwnerID             string     `json:"ownerId"`
}

// Project status values recognized by the client. The field itself is
// free-form; the server may send values outside this set.
const (
	ProjectStatusActive    = "active"
	ProjectStatusLaunching = "launching"
	ProjectStatusInReview  = "in-review"
	ProjectStatusDeleted   = "deleted"
)

// Archived reports whether the project has been soft-deleted server-side.
// The client never deletes a project record; it resets to a null-project
// state once the status lands here.
func (p Project) Archived() bool {
	return p.Status == ProjectStatusDeleted
}

// TaskStatus is the task workflow state.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskInReview   TaskStatus = "in-review"
	TaskDone       TaskStatus = "done"
	TaskBlocked    TaskStatus = "blocked"
)

// TaskPriority is the task urgency label.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Task represents a unit of project work.
//
// A task carries two interchangeable identifiers: ID (the client-facing
// key) and ServerID (the backend record key). Either may be absent on a
// given record, and both are valid lookup keys — see SameTask.
type Task struct {
	ID                   string       `json:"id,omitempty"`
	ServerID             string       `json:"_id,omitempty"`
	Title                string       `json:"title"`
	Status               TaskStatus   `json:"status"`
	Priority             TaskPriority `json:"priority"`
	Assignee             string       `json:"assignee,omitempty"` // name, email, or member id
	Deadline             *time.Time   `json:"deadline,omitempty"`
	Description          string       `json:"description,omitempty"`
	Milestone            string       `json:"milestone,omitempty"`
	Attachments          []string     `json:"attachments,omitempty"`
	TimerStartedAt       *time.Time   `json:"timerStartedAt,omitempty"`
	ReviewedBy           string       `json:"reviewedBy,omitempty"`
	RejectionNote        string       `json:"rejectionNote,omitempty"`
	RejectionAttachments []string     `json:"rejectionAttachments,omitempty"`
	Subtasks             []Task       `json:"subtasks,omitempty"`
}

// Key returns the task's effective identifier: the primary ID when set,
// otherwise the server-side one.
func (t Task) Key() string {
	if t.ID != "" {
		return t.ID
	}
	return t.ServerID
}

// RiskSeverity grades how damaging a detected risk is.
type RiskSeverity string

const (
	RiskLow      RiskSeverity = "low"
	RiskMedium   RiskSeverity = "medium"
	RiskHigh     RiskSeverity = "high"
	RiskCritical RiskSeverity = "critical"
)

// Risk detection sources.
const (
	DetectedByAI     = "ai"
	DetectedByManual = "manual"
)

// Risk represents a detected project risk. Resolved is a one-way flag;
// there is no un-resolve operation.
type Risk struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Severity        RiskSeverity `json:"severity"`
	PredictedImpact string       `json:"predictedImpact,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
	AffectedTaskIDs []string     `json:"affectedTaskIds,omitempty"`
	Confidence      int          `json:"confidence,omitempty"` // 0-100
	DetectedAt      time.Time    `json:"detectedAt"`
	DetectedBy      string       `json:"detectedBy"` // "ai" or "manual"
	Resolved        bool         `json:"resolved"`
}

// Role is the coarse access role of a team member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
	RoleQA     Role = "qa"
)

// CanReview reports whether the role may approve or reject submissions.
func (r Role) CanReview() bool {
	return r == RoleOwner || r == RoleQA
}

// TeamMember represents an accepted member of the project team.
type TeamMember struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Specialty string `json:"specialty,omitempty"` // display title, e.g. "Backend"
}

// PendingInvite is an outstanding invitation. Invites live in a separate
// list from members until accepted server-side or canceled.
type PendingInvite struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	InvitedBy string    `json:"invitedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity is an entry in the agent activity feed. The feed is a bounded
// ring kept client-side, not durable storage.
type Activity struct {
	ID        string    `json:"id"`
	Agent     AgentName `json:"agent"`
	Action    string    `json:"action"`
	Time      string    `json:"time"` // display string, e.g. "Just now"
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationKind is the severity of a notification.
type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyWarning NotificationKind = "warning"
	NotifyError   NotificationKind = "error"
)

// Notification is a user-facing alert produced by an agent or action.
type Notification struct {
	ID        string           `json:"id"`
	Agent     AgentName        `json:"agent"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
	Actions   []string         `json:"actions,omitempty"`
}

// AgentName identifies one of the fixed simulated agents.
type AgentName string

const (
	AgentPlanner        AgentName = "Planner"
	AgentExecution      AgentName = "Execution"
	AgentRisk           AgentName = "Risk"
	AgentCommunication  AgentName = "Communication"
	AgentRecommendation AgentName = "Recommendation"
)

// AllAgents returns the fixed agent set in display order.
func AllAgents() []AgentName {
	return []AgentName{
		AgentPlanner,
		AgentExecution,
		AgentRisk,
		AgentCommunication,
		AgentRecommendation,
	}
}

// AgentState is the simulated status of an agent. Pure UI state with no
// server counterpart.
type AgentState string

const (
	AgentIdle     AgentState = "idle"
	AgentActive   AgentState = "active"
	AgentThinking AgentState = "thinking"
)

// Session is the authenticated user identity, persisted across runs.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// OnboardingDraft carries the chosen owner identity across the
// signup-to-onboarding handoff.
type OnboardingDraft struct {
	OwnerEmail string `json:"ownerEmail"`
	OwnerName  string `json:"ownerName"`
}
