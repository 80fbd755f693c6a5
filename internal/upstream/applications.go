package upstream

import (
	"context"
	"net/http"
)

// ListApplications fetches the caller's applications, optionally filtered by
// status.
func (c *Client) ListApplications(ctx context.Context, status ApplicationStatus) ([]Application, error) {
	var apps []Application
	q := listQuery(0, 0, map[string]string{"status": string(status)})
	if err := c.do(ctx, http.MethodGet, "/api/candidates/applications", q, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// WithdrawApplication requests the withdrawn status for one application. The
// upstream validates the transition.
func (c *Client) WithdrawApplication(ctx context.Context, id string) (*Application, error) {
	body := map[string]string{"status": string(StatusWithdrawn)}
	var app Application
	if err := c.do(ctx, http.MethodPatch, "/api/candidates/applications/"+id, nil, body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}
