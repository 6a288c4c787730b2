package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robby/octoops/internal/domain"
)

// Tasks lists all tasks for a project.
func (c *Client) Tasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	var tasks []domain.Task
	endpoint := "projects/" + url.PathEscape(projectID) + "/tasks"
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask persists a new task under a project and returns the server
// record.
func (c *Client) CreateTask(ctx context.Context, projectID string, t domain.Task) (domain.Task, error) {
	var created domain.Task
	endpoint := "projects/" + url.PathEscape(projectID) + "/tasks"
	if err := c.do(ctx, http.MethodPost, endpoint, t, &created); err != nil {
		return domain.Task{}, err
	}
	return created, nil
}

// UpdateTask sends a partial update by id and returns the full server
// record. Either of the task's two identifiers is accepted.
func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	var updated domain.Task
	if err := c.do(ctx, http.MethodPatch, "tasks/"+url.PathEscape(id), patch, &updated); err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "tasks/"+url.PathEscape(id), nil, nil)
}

// SubmitTask moves a task into review server-side.
func (c *Client) SubmitTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPost, "tasks/"+url.PathEscape(id)+"/submit", nil, &t); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ApproveTask marks an in-review task done server-side.
func (c *Client) ApproveTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPost, "tasks/"+url.PathEscape(id)+"/approve", nil, &t); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}
