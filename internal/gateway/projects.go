package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robby/octoops/internal/domain"
)

// CreateProject persists a new project and returns the server record.
func (c *Client) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	var created domain.Project
	if err := c.do(ctx, http.MethodPost, "projects", p, &created); err != nil {
		return domain.Project{}, err
	}
	return created, nil
}

// Project fetches a project by id.
func (c *Client) Project(ctx context.Context, id string) (domain.Project, error) {
	var p domain.Project
	if err := c.do(ctx, http.MethodGet, "projects/"+url.PathEscape(id), nil, &p); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// ProjectsForUser lists the projects the user owns or belongs to. The
// current project for a session is the first entry.
func (c *Client) ProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	var projects []domain.Project
	endpoint := "projects?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProject sends the full merged project object and returns the
// authoritative server copy.
func (c *Client) UpdateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	var updated domain.Project
	if err := c.do(ctx, http.MethodPut, "projects/"+url.PathEscape(p.ID), p, &updated); err != nil {
		return domain.Project{}, err
	}
	return updated, nil
}
