package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/octoops/internal/domain"
)

func seedTasks(t *testing.T, gw *fakeGateway, tasks ...domain.Task) (*Store, *fakeScheduler) {
	t.Helper()
	gw.tasks = tasks
	s, sched := newTestStore(t, gw)
	loadProject(t, s, gw)
	require.Len(t, s.Tasks(), len(tasks))
	return s, sched
}

func taskByKey(t *testing.T, s *Store, id string) domain.Task {
	t.Helper()
	for _, task := range s.Tasks() {
		if domain.SameTask(task, id) {
			return task
		}
	}
	t.Fatalf("task %q not in store", id)
	return domain.Task{}
}

func TestAddTaskPrependsServerRecord(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Title: "Old", Status: domain.TaskTodo})

	s.AddTask(context.Background(), domain.Task{Title: "New task"}, "")

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "New task", tasks[0].Title, "newest first")
	assert.NotEmpty(t, tasks[0].ID, "local record is the server's, with its id")

	acts := s.Activities()
	require.NotEmpty(t, acts)
	assert.Equal(t, domain.AgentPlanner, acts[0].Agent)
	assert.Equal(t, domain.AgentActive, s.AgentStatus(domain.AgentPlanner))
}

func TestAddTaskWithoutProjectIsSkipped(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestStore(t, gw)

	s.AddTask(context.Background(), domain.Task{Title: "Orphan"}, "")

	assert.Empty(t, s.Tasks())
	assert.Zero(t, gw.count("CreateTask"))
}

func TestUpdateTaskFindsByEitherIdentifier(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw,
		domain.Task{ID: "t1", ServerID: "srv-9", Title: "Dual", Status: domain.TaskTodo},
	)

	s.UpdateTask(context.Background(), "srv-9", domain.TaskPatch{Title: domain.Ptr("Renamed")})
	assert.Equal(t, "Renamed", taskByKey(t, s, "t1").Title)

	s.UpdateTask(context.Background(), "t1", domain.TaskPatch{Priority: domain.Ptr(domain.PriorityHigh)})
	assert.Equal(t, domain.PriorityHigh, taskByKey(t, s, "srv-9").Priority)
	assert.Len(t, s.Tasks(), 1, "both keys address the same record")
}

func TestStartTaskStampsWorkSession(t *testing.T) {
	gw := &fakeGateway{}
	s, sched := seedTasks(t, gw, domain.Task{ID: "t1", Title: "Build", Status: domain.TaskTodo})

	s.StartTask(context.Background(), "t1")

	got := taskByKey(t, s, "t1")
	assert.Equal(t, domain.TaskInProgress, got.Status)
	require.NotNil(t, got.TimerStartedAt)
	assert.Equal(t, sched.Now(), *got.TimerStartedAt)
}

func TestStartTaskRevertsOnPersistenceFailure(t *testing.T) {
	gw := &fakeGateway{updateTaskErr: fmt.Errorf("boom")}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Status: domain.TaskTodo})

	s.StartTask(context.Background(), "t1")

	got := taskByKey(t, s, "t1")
	assert.Equal(t, domain.TaskTodo, got.Status)
	assert.Nil(t, got.TimerStartedAt)
}

func TestTaskLifecycleThroughStore(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Title: "Ship it", Status: domain.TaskTodo})
	ctx := context.Background()

	s.StartTask(ctx, "t1")
	assert.Equal(t, domain.TaskInProgress, taskByKey(t, s, "t1").Status)

	s.SubmitForReview(ctx, "t1")
	assert.Equal(t, domain.TaskInReview, taskByKey(t, s, "t1").Status)

	s.ApproveTask(ctx, "t1")
	got := taskByKey(t, s, "t1")
	assert.Equal(t, domain.TaskDone, got.Status)
	assert.Equal(t, "user-1", got.ReviewedBy)

	// Double approve from a slow UI is a no-op, not a second call.
	s.ApproveTask(ctx, "t1")
	assert.Equal(t, 1, gw.count("ApproveTask"))
	assert.Equal(t, domain.TaskDone, taskByKey(t, s, "t1").Status)
}

func TestSubmitForReviewIsOptimisticWithRevert(t *testing.T) {
	gw := &fakeGateway{submitErr: fmt.Errorf("503")}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Title: "Risky", Status: domain.TaskInProgress})

	s.SubmitForReview(context.Background(), "t1")

	assert.Equal(t, domain.TaskInProgress, taskByKey(t, s, "t1").Status, "failed submit reverts")
	notifs := s.Notifications()
	require.NotEmpty(t, notifs)
	assert.Equal(t, "Submit Failed", notifs[0].Title)
	assert.Equal(t, domain.NotifyWarning, notifs[0].Kind)
}

func TestSubmitForReviewInvalidStateDoesNotCallGateway(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Status: domain.TaskTodo})

	s.SubmitForReview(context.Background(), "t1")

	assert.Equal(t, domain.TaskTodo, taskByKey(t, s, "t1").Status)
	assert.Zero(t, gw.count("SubmitTask"))
}

func TestRejectTaskCarriesNoteAndAttachments(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Title: "Draft", Status: domain.TaskInReview})

	s.RejectTask(context.Background(), "t1", "missing tests", []string{"review.png"})

	got := taskByKey(t, s, "t1")
	assert.Equal(t, domain.TaskInProgress, got.Status)
	assert.Equal(t, "missing tests", got.RejectionNote)
	assert.Equal(t, []string{"review.png"}, got.RejectionAttachments)

	notifs := s.Notifications()
	require.NotEmpty(t, notifs)
	assert.Equal(t, "Changes Requested", notifs[0].Title)
}

func TestDeleteTaskIsOptimistic(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw,
		domain.Task{ID: "t1", Title: "Keep"},
		domain.Task{ID: "t2", Title: "Drop"},
	)

	s.DeleteTask(context.Background(), "t2")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, 1, gw.count("DeleteTask"))
}

func TestDeleteTaskFailureWarnsButNeverRollsBack(t *testing.T) {
	gw := &fakeGateway{deleteTaskErr: fmt.Errorf("403")}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Title: "Doomed"})

	s.DeleteTask(context.Background(), "t1")

	assert.Empty(t, s.Tasks(), "local removal sticks even when the server refuses")
	notifs := s.Notifications()
	require.NotEmpty(t, notifs)
	assert.Equal(t, "Delete Not Synced", notifs[0].Title)
	assert.Equal(t, domain.NotifyWarning, notifs[0].Kind)
}

func TestDeleteUnknownTaskSkipsGateway(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1"})

	s.DeleteTask(context.Background(), "nope")

	assert.Len(t, s.Tasks(), 1)
	assert.Zero(t, gw.count("DeleteTask"))
}

func TestBlockAndUnblock(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw, domain.Task{ID: "t1", Title: "Stuck", Status: domain.TaskInProgress})
	ctx := context.Background()

	s.BlockTask(ctx, "t1")
	assert.Equal(t, domain.TaskBlocked, taskByKey(t, s, "t1").Status)

	s.UnblockTask(ctx, "t1")
	assert.Equal(t, domain.TaskInProgress, taskByKey(t, s, "t1").Status, "unblock is always explicit")
}

func TestTasksForOrdersPersonalQueue(t *testing.T) {
	member := domain.TeamMember{ID: "m1", Name: "Mike", Email: "mike@x.com"}
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw,
		domain.Task{ID: "a", Title: "A", Status: domain.TaskInProgress, Assignee: "mike@x.com"},
		domain.Task{ID: "b", Title: "B", Status: domain.TaskInProgress, Assignee: "Mike", RejectionNote: "redo"},
		domain.Task{ID: "c", Title: "C", Status: domain.TaskTodo, Assignee: "m1"},
		domain.Task{ID: "d", Title: "D", Status: domain.TaskTodo, Assignee: "someone else"},
	)

	mine := s.TasksFor(member)

	require.Len(t, mine, 3)
	assert.Equal(t, "b", mine[0].ID, "rework resurfaces first")
	assert.Equal(t, "a", mine[1].ID, "then in-progress")
	assert.Equal(t, "c", mine[2].ID, "then arrival order")
}

func TestMemberDashboardDerivation(t *testing.T) {
	member := domain.TeamMember{ID: "m1", Name: "Mike", Email: "mike@x.com"}
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw,
		domain.Task{ID: "t1", Title: "Done one", Status: domain.TaskDone, Assignee: "mike@x.com"},
		domain.Task{ID: "t2", Title: "Current", Status: domain.TaskInProgress, Assignee: "mike@x.com"},
		domain.Task{ID: "t3", Title: "Next", Status: domain.TaskTodo, Assignee: "mike@x.com"},
	)

	d := s.MemberDashboardFor(member)

	assert.Equal(t, 1, d.CompletedCount)
	require.NotNil(t, d.ActiveTask)
	assert.Equal(t, "t2", d.ActiveTask.ID)
	require.Len(t, d.Queue, 1)
	assert.Equal(t, "t3", d.Queue[0].ID)
}

func TestFetchTasksReplacesWholesale(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := seedTasks(t, gw,
		domain.Task{ID: "t1", Title: "Stale"},
		domain.Task{ID: "t2", Title: "Also stale"},
	)

	gw.mu.Lock()
	gw.tasks = []domain.Task{{ID: "t3", Title: "Fresh"}}
	gw.mu.Unlock()
	s.FetchTasks(context.Background())

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "t3", tasks[0].ID, "anything the server omits is authoritatively gone")
}
