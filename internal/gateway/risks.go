package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robby/octoops/internal/domain"
)

// Risks lists all risks for a project.
func (c *Client) Risks(ctx context.Context, projectID string) ([]domain.Risk, error) {
	var risks []domain.Risk
	endpoint := "projects/" + url.PathEscape(projectID) + "/risks"
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &risks); err != nil {
		return nil, err
	}
	return risks, nil
}

// CreateRisk persists a new risk and returns the server record.
func (c *Client) CreateRisk(ctx context.Context, projectID string, r domain.Risk) (domain.Risk, error) {
	var created domain.Risk
	endpoint := "projects/" + url.PathEscape(projectID) + "/risks"
	if err := c.do(ctx, http.MethodPost, endpoint, r, &created); err != nil {
		return domain.Risk{}, err
	}
	return created, nil
}

// UpdateRisk replaces a risk record.
func (c *Client) UpdateRisk(ctx context.Context, r domain.Risk) (domain.Risk, error) {
	var updated domain.Risk
	if err := c.do(ctx, http.MethodPut, "risks/"+url.PathEscape(r.ID), r, &updated); err != nil {
		return domain.Risk{}, err
	}
	return updated, nil
}

// DeleteRisk removes a risk.
func (c *Client) DeleteRisk(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "risks/"+url.PathEscape(id), nil, nil)
}

// ResolveRisk flips a risk to resolved server-side. One-way; there is no
// un-resolve endpoint.
func (c *Client) ResolveRisk(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "risks/"+url.PathEscape(id)+"/resolve", nil, nil)
}

// AnalyzeRisks runs the AI risk analysis pass for a project and returns
// the detected risks.
func (c *Client) AnalyzeRisks(ctx context.Context, projectID string) ([]domain.Risk, error) {
	var risks []domain.Risk
	endpoint := "projects/" + url.PathEscape(projectID) + "/risks/analyze"
	if err := c.do(ctx, http.MethodPost, endpoint, nil, &risks); err != nil {
		return nil, err
	}
	return risks, nil
}
