package gateway

import (
	"context"
	"net/http"
	"net/url"
)

// NotificationSettings controls which events produce notifications.
type NotificationSettings struct {
	Email     bool `json:"email"`
	InApp     bool `json:"inApp"`
	RiskOnly  bool `json:"riskOnly"`
	DailyWrap bool `json:"dailyWrap"`
}

// IntegrationSettings holds third-party hook configuration.
type IntegrationSettings struct {
	SlackWebhook  string `json:"slackWebhook,omitempty"`
	GithubRepo    string `json:"githubRepo,omitempty"`
	CalendarEmail string `json:"calendarEmail,omitempty"`
}

// AISettings tunes the assistance layer.
type AISettings struct {
	AutoGenerateTasks bool `json:"autoGenerateTasks"`
	RiskScans         bool `json:"riskScans"`
	Recommendations   bool `json:"recommendations"`
}

// Settings is the per-project settings document.
type Settings struct {
	ProjectID     string               `json:"projectId"`
	Notifications NotificationSettings `json:"notifications"`
	Integrations  IntegrationSettings  `json:"integrations"`
	AI            AISettings           `json:"ai"`
}

// Settings fetches the settings document for a project.
func (c *Client) Settings(ctx context.Context, projectID string) (Settings, error) {
	var s Settings
	if err := c.do(ctx, http.MethodGet, c.settingsPath(projectID, ""), nil, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// UpdateSettings replaces the full settings document.
func (c *Client) UpdateSettings(ctx context.Context, s Settings) (Settings, error) {
	var updated Settings
	if err := c.do(ctx, http.MethodPut, c.settingsPath(s.ProjectID, ""), s, &updated); err != nil {
		return Settings{}, err
	}
	return updated, nil
}

// UpdateNotificationSettings replaces only the notification section.
func (c *Client) UpdateNotificationSettings(ctx context.Context, projectID string, n NotificationSettings) error {
	return c.do(ctx, http.MethodPut, c.settingsPath(projectID, "notifications"), n, nil)
}

// UpdateIntegrationSettings replaces only the integrations section.
func (c *Client) UpdateIntegrationSettings(ctx context.Context, projectID string, i IntegrationSettings) error {
	return c.do(ctx, http.MethodPut, c.settingsPath(projectID, "integrations"), i, nil)
}

// UpdateAISettings replaces only the AI section.
func (c *Client) UpdateAISettings(ctx context.Context, projectID string, a AISettings) error {
	return c.do(ctx, http.MethodPut, c.settingsPath(projectID, "ai"), a, nil)
}

func (c *Client) settingsPath(projectID, section string) string {
	p := "projects/" + url.PathEscape(projectID) + "/settings"
	if section != "" {
		p += "/" + section
	}
	return p
}
