// Package store provides the application state container for the OctoOps
// client. It owns every in-memory copy of entity state - project, tasks,
// risks, team, activity feed, notifications, modal state, and the
// simulated agent status map - and mediates every mutation: optimistic
// local updates, gateway persistence calls, derived activity entries, and
// derived notifications.
//
// The store is the single writer for all entity state. User actions,
// realtime invalidation handlers, and heartbeat timer callbacks all
// funnel through the same mutex, so interleavings stay safe without any
// global sequencing; two independent in-flight actions race freely and
// the last response to arrive wins for its own record.
//
// Gateway-backed actions log failures and leave state unchanged (a safe
// no-op), except the explicitly optimistic ones documented per method.
// Only CompleteOnboarding returns its error to the caller.
package store

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/robby/octoops/internal/domain"
	"github.com/robby/octoops/internal/gateway"
)

// Feed bounds. Both feeds are client-side rings, not durable storage.
const (
	activityCap     = 50
	notificationCap = 20
)

// Gateway is the remote persistence port consumed by the store. The
// production implementation is *gateway.Client; tests substitute a fake.
type Gateway interface {
	Signup(ctx context.Context, in gateway.SignupInput) (domain.Session, error)
	Login(ctx context.Context, identifier string) (domain.Session, error)

	ProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error)
	CreateProject(ctx context.Context, p domain.Project) (domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) (domain.Project, error)

	Tasks(ctx context.Context, projectID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, projectID string, t domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	SubmitTask(ctx context.Context, id string) (domain.Task, error)
	ApproveTask(ctx context.Context, id string) (domain.Task, error)

	Risks(ctx context.Context, projectID string) ([]domain.Risk, error)
	CreateRisk(ctx context.Context, projectID string, r domain.Risk) (domain.Risk, error)
	ResolveRisk(ctx context.Context, id string) error
	AnalyzeRisks(ctx context.Context, projectID string) ([]domain.Risk, error)

	Team(ctx context.Context, projectID string) (gateway.TeamList, error)
	Invite(ctx context.Context, projectID string, in gateway.InviteInput) (domain.PendingInvite, error)
	CancelInvite(ctx context.Context, inviteID string) error
	RemoveMember(ctx context.Context, projectID, memberID string) error

	GenerateTasks(ctx context.Context, projectID string) ([]domain.Task, error)
}

// RoomJoiner is the realtime-channel port: the store announces project
// changes so the channel can move between update rooms.
type RoomJoiner interface {
	JoinProject(projectID string)
	LeaveProject(projectID string)
}

// Options configures a Store. Gateway is required; everything else has a
// working default.
type Options struct {
	Gateway   Gateway
	Session   domain.Session
	Scheduler Scheduler  // defaults to SystemScheduler
	Rooms     RoomJoiner // optional realtime channel
	Logger    *log.Logger
	NewID     func() string // defaults to uuid.NewString
	Rand      *rand.Rand    // heartbeat randomness, defaults to a time-seeded source

	HeartbeatInterval time.Duration // defaults to 15s
	AgentWindow       time.Duration // agent active window, defaults to 3s
	ToastWindow       time.Duration // toast display window, defaults to 5s
}

// Store is the process-wide reactive state container. Create one per
// session with New and release it with Close.
type Store struct {
	mu sync.Mutex

	gw    Gateway
	sched Scheduler
	rooms RoomJoiner
	log   *log.Logger
	newID func() string
	rand  *rand.Rand

	heartbeatInterval time.Duration
	agentWindow       time.Duration
	toastWindow       time.Duration

	session domain.Session

	project *domain.Project
	preview domain.Project // pre-creation edits made before a project exists

	tasks   []domain.Task
	risks   []domain.Risk
	team    []domain.TeamMember
	invites []domain.PendingInvite

	activities    []domain.Activity
	notifications []domain.Notification
	toasts        []string // notification ids currently surfaced as toasts
	toastTimers   map[string]TimerHandle

	modalName    string
	modalPayload any

	agents      map[domain.AgentName]domain.AgentState
	agentTimers map[domain.AgentName]TimerHandle

	heartbeat TimerHandle
	hydrated  bool
	closed    bool

	subs []chan struct{}
}

// New creates a store. The session identifies the authenticated user; it
// may be zero during onboarding and is filled in by CompleteOnboarding.
func New(opts Options) *Store {
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 15 * time.Second
	}
	if opts.AgentWindow <= 0 {
		opts.AgentWindow = 3 * time.Second
	}
	if opts.ToastWindow <= 0 {
		opts.ToastWindow = 5 * time.Second
	}

	s := &Store{
		gw:                opts.Gateway,
		sched:             opts.Scheduler,
		rooms:             opts.Rooms,
		log:               opts.Logger,
		newID:             opts.NewID,
		rand:              opts.Rand,
		heartbeatInterval: opts.HeartbeatInterval,
		agentWindow:       opts.AgentWindow,
		toastWindow:       opts.ToastWindow,
		session:           opts.Session,
		toastTimers:       make(map[string]TimerHandle),
		agents:            make(map[domain.AgentName]domain.AgentState),
		agentTimers:       make(map[domain.AgentName]TimerHandle),
	}
	for _, name := range domain.AllAgents() {
		s.agents[name] = domain.AgentIdle
	}
	return s
}

// Close cancels every scheduled timer and wakes subscribers one last
// time. The store is unusable afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.heartbeat != nil {
		s.heartbeat.Stop()
		s.heartbeat = nil
	}
	for _, h := range s.agentTimers {
		h.Stop()
	}
	s.agentTimers = make(map[domain.AgentName]TimerHandle)
	for _, h := range s.toastTimers {
		h.Stop()
	}
	s.toastTimers = make(map[string]TimerHandle)
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// Subscribe returns a channel that receives a signal after every state
// change. The channel is buffered and coalescing: a slow reader sees at
// least one signal for any burst of changes. It is closed by Close.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Session returns the authenticated identity.
func (s *Store) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// IsHydrated reports whether the initial project-fetch attempt has
// resolved, success or failure. It transitions false to true exactly once
// and never reverts. UI gates "still loading" vs "confirmed empty" on
// this, never on Project() == nil alone.
func (s *Store) IsHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Project returns a copy of the loaded project, or nil when none is
// loaded.
func (s *Store) Project() *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return nil
	}
	p := *s.project
	return &p
}

// Preview returns the pre-creation project draft edited during
// onboarding.
func (s *Store) Preview() domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Tasks returns a copy of the task list, newest first.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Risks returns a copy of the risk list.
func (s *Store) Risks() []domain.Risk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Risk, len(s.risks))
	copy(out, s.risks)
	return out
}

// Team returns a copy of the accepted members list.
func (s *Store) Team() []domain.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TeamMember, len(s.team))
	copy(out, s.team)
	return out
}

// PendingInvites returns a copy of the outstanding invites.
func (s *Store) PendingInvites() []domain.PendingInvite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PendingInvite, len(s.invites))
	copy(out, s.invites)
	return out
}

// Activities returns a copy of the activity feed, newest first.
func (s *Store) Activities() []domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// Notifications returns a copy of the notification list, newest first.
func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// AgentStatus returns the simulated state of one agent.
func (s *Store) AgentStatus(name domain.AgentName) domain.AgentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agents[name]
}

// AgentStatuses returns a copy of the full agent status map.
func (s *Store) AgentStatuses() map[domain.AgentName]domain.AgentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.AgentName]domain.AgentState, len(s.agents))
	for k, v := range s.agents {
		out[k] = v
	}
	return out
}

// OpenModal opens the named modal with an optional payload. Only one
// modal is logically open at a time; the last call wins.
func (s *Store) OpenModal(name string, payload any) {
	s.mu.Lock()
	s.modalName = name
	s.modalPayload = payload
	s.mu.Unlock()
	s.notify()
}

// CloseModal closes whatever modal is open and clears its payload.
func (s *Store) CloseModal() {
	s.mu.Lock()
	s.modalName = ""
	s.modalPayload = nil
	s.mu.Unlock()
	s.notify()
}

// Modal returns the open modal's name and payload; name is empty when
// nothing is open.
func (s *Store) Modal() (string, any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalName, s.modalPayload
}

// projectID returns the loaded project id, or empty when none.
func (s *Store) projectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return ""
	}
	return s.project.ID
}

// switchRoom moves the realtime channel between project rooms.
func (s *Store) switchRoom(oldID, newID string) {
	if s.rooms == nil || oldID == newID {
		return
	}
	if oldID != "" {
		s.rooms.LeaveProject(oldID)
	}
	if newID != "" {
		s.rooms.JoinProject(newID)
	}
}
