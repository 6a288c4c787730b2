package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/robby/octoops/internal/domain"
)

// ImageAnalysis is the result of the AI image inspection endpoint.
type ImageAnalysis struct {
	Summary     string   `json:"summary"`
	Findings    []string `json:"findings,omitempty"`
	SuggestedBy string   `json:"suggestedBy,omitempty"`
}

// TeamSuggestion is one proposed hire from the team-assembly endpoint.
type TeamSuggestion struct {
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Specialty string      `json:"specialty"`
	Reason    string      `json:"reason,omitempty"`
}

// GenerateTasks asks the assistance layer to seed a project with an
// initial task breakdown and returns the created tasks.
func (c *Client) GenerateTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	var tasks []domain.Task
	body := map[string]string{"projectId": projectID}
	if err := c.do(ctx, http.MethodPost, "ai/generate-tasks", body, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TeamAssembly asks for a suggested team composition from a project
// brief.
func (c *Client) TeamAssembly(ctx context.Context, projectID, brief string) ([]TeamSuggestion, error) {
	var suggestions []TeamSuggestion
	body := map[string]string{"projectId": projectID, "brief": brief}
	if err := c.do(ctx, http.MethodPost, "ai/team-assembly", body, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// HealthScore recomputes the project health score server-side.
func (c *Client) HealthScore(ctx context.Context, projectID string) (int, error) {
	var resp struct {
		HealthScore int `json:"healthScore"`
	}
	body := map[string]string{"projectId": projectID}
	if err := c.do(ctx, http.MethodPost, "ai/health-score", body, &resp); err != nil {
		return 0, err
	}
	return resp.HealthScore, nil
}

// TaskRecommendations returns next-step suggestions for a task.
func (c *Client) TaskRecommendations(ctx context.Context, taskID string) ([]string, error) {
	var resp struct {
		Recommendations []string `json:"recommendations"`
	}
	endpoint := "ai/task-recommendations?taskId=" + url.QueryEscape(taskID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// AnalyzeImage uploads an image for AI inspection. Unlike every other
// endpoint this one speaks multipart form data, not JSON.
func (c *Client) AnalyzeImage(ctx context.Context, projectID, filename string, r io.Reader) (ImageAnalysis, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		if err := writer.WriteField("projectId", projectID); err != nil {
			pw.CloseWithError(err)
			return
		}
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("ai/analyze-image"), pr)
	if err != nil {
		return ImageAnalysis{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return ImageAnalysis{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return ImageAnalysis{}, &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var analysis ImageAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return ImageAnalysis{}, fmt.Errorf("decode response: %w", err)
	}
	return analysis, nil
}
