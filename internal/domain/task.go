package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrInvalidTransition indicates a task status change that the
	// workflow does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrTaskTerminal indicates an operation on a task already done.
	ErrTaskTerminal = errors.New("task is done")
)

// Start moves a todo task into in-progress and stamps the work-session
// start time. The timer drives a bounded countdown display only; running
// past it is flagged visually, never blocked.
func (t *Task) Start(now time.Time) error {
	if t.Status != TaskTodo {
		return fmt.Errorf("%w: start from %q", ErrInvalidTransition, t.Status)
	}
	t.Status = TaskInProgress
	t.TimerStartedAt = &now
	return nil
}

// Submit moves an in-progress task into in-review.
func (t *Task) Submit() error {
	if t.Status != TaskInProgress {
		return fmt.Errorf("%w: submit from %q", ErrInvalidTransition, t.Status)
	}
	t.Status = TaskInReview
	return nil
}

// Approve moves an in-review task to done and stamps the reviewer.
// Approving an already-done task is a no-op, not an error, so a double
// approve from a slow UI cannot crash the flow.
func (t *Task) Approve(reviewer string) error {
	if t.Status == TaskDone {
		return nil
	}
	if t.Status != TaskInReview {
		return fmt.Errorf("%w: approve from %q", ErrInvalidTransition, t.Status)
	}
	t.Status = TaskDone
	t.ReviewedBy = reviewer
	return nil
}

// Reject sends an in-review task back to in-progress, attaching the
// reviewer's note and any supporting attachments for the assignee.
// Rejection is a status transition plus side payload, not a distinct state.
func (t *Task) Reject(note string, attachments []string) error {
	if t.Status != TaskInReview {
		return fmt.Errorf("%w: reject from %q", ErrInvalidTransition, t.Status)
	}
	t.Status = TaskInProgress
	t.RejectionNote = note
	t.RejectionAttachments = attachments
	return nil
}

// Block marks any non-terminal task as blocked.
func (t *Task) Block() error {
	if t.Status == TaskDone {
		return ErrTaskTerminal
	}
	if t.Status == TaskBlocked {
		return nil
	}
	t.Status = TaskBlocked
	return nil
}

// Unblock returns a blocked task to in-progress. There is no auto-unblock.
func (t *Task) Unblock() error {
	if t.Status != TaskBlocked {
		return fmt.Errorf("%w: unblock from %q", ErrInvalidTransition, t.Status)
	}
	t.Status = TaskInProgress
	return nil
}

// SortPersonalQueue orders a member's tasks for their personal queue:
// unresolved rejections first, then in-progress work, then everything
// else in arrival order. The sort is stable so arrival order survives
// within each band. Rework resurfaces ahead of fresh work.
func SortPersonalQueue(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return queueBand(tasks[i]) < queueBand(tasks[j])
	})
}

func queueBand(t Task) int {
	switch {
	case t.RejectionNote != "" && t.Status != TaskDone:
		return 0
	case t.Status == TaskInProgress:
		return 1
	default:
		return 2
	}
}
