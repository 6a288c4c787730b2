package gateway

import (
	"context"
	"net/http"

	"github.com/robby/octoops/internal/domain"
)

// SignupInput is the payload for creating a new user account.
type SignupInput struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role,omitempty"`
}

// Signup creates a new user account. The session cookie is captured by
// the client's jar. A 409 means the identity already exists; callers
// typically fall back to Login (see IsConflict).
func (c *Client) Signup(ctx context.Context, in SignupInput) (domain.Session, error) {
	var resp struct {
		User domain.Session `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/signup", in, &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.User, nil
}

// Login authenticates by identifier (email). The session credential
// lands in the cookie jar.
func (c *Client) Login(ctx context.Context, identifier string) (domain.Session, error) {
	var resp struct {
		User domain.Session `json:"user"`
	}
	body := map[string]string{"identifier": identifier}
	if err := c.do(ctx, http.MethodPost, "auth/login", body, &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.User, nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/logout", nil, nil)
}
