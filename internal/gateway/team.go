package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/robby/octoops/internal/domain"
)

// TeamList is the combined members-plus-pending response for a project.
type TeamList struct {
	Members []domain.TeamMember    `json:"members"`
	Pending []domain.PendingInvite `json:"pending"`
}

// Team fetches the accepted members and outstanding invites for a
// project.
func (c *Client) Team(ctx context.Context, projectID string) (TeamList, error) {
	var list TeamList
	endpoint := "projects/" + url.PathEscape(projectID) + "/team"
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return TeamList{}, err
	}
	return list, nil
}

// InviteInput is the payload for inviting a member.
type InviteInput struct {
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Specialty string      `json:"specialty,omitempty"`
}

// Invite sends a team invitation and returns the pending record.
func (c *Client) Invite(ctx context.Context, projectID string, in InviteInput) (domain.PendingInvite, error) {
	var invite domain.PendingInvite
	endpoint := "projects/" + url.PathEscape(projectID) + "/team/invite"
	if err := c.do(ctx, http.MethodPost, endpoint, in, &invite); err != nil {
		return domain.PendingInvite{}, err
	}
	return invite, nil
}

// AcceptInvite promotes a pending invite into membership.
func (c *Client) AcceptInvite(ctx context.Context, inviteID string) (domain.TeamMember, error) {
	var member domain.TeamMember
	endpoint := "team/invites/" + url.PathEscape(inviteID) + "/accept"
	if err := c.do(ctx, http.MethodPost, endpoint, nil, &member); err != nil {
		return domain.TeamMember{}, err
	}
	return member, nil
}

// CancelInvite withdraws a pending invite.
func (c *Client) CancelInvite(ctx context.Context, inviteID string) error {
	return c.do(ctx, http.MethodDelete, "team/invites/"+url.PathEscape(inviteID), nil, nil)
}

// RemoveMember removes a member from the project team.
func (c *Client) RemoveMember(ctx context.Context, projectID, memberID string) error {
	endpoint := "projects/" + url.PathEscape(projectID) + "/team/" + url.PathEscape(memberID)
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// UpdateRole changes a member's access role.
func (c *Client) UpdateRole(ctx context.Context, projectID, memberID string, role domain.Role) error {
	endpoint := "projects/" + url.PathEscape(projectID) + "/team/" + url.PathEscape(memberID) + "/role"
	body := map[string]domain.Role{"role": role}
	return c.do(ctx, http.MethodPut, endpoint, body, nil)
}
