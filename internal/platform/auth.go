// internal/platform/auth.go
package platform

import (
	"context"
	"net/http"
)

// StaffUser is the platform's view of a signed-in staff member.
type StaffUser struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	InstitutionID string `json:"institutionId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a staff member against the platform. A wrong password
// comes back as an *APIError with the platform's message.
func (c *Client) Login(ctx context.Context, email, password string) (StaffUser, error) {
	body := loginRequest{Email: email, Password: password}
	return call[StaffUser](ctx, c, http.MethodPost, "/auth/login", nil, body)
}
