package upstream

import (
	"context"
	"net/http"
)

// GetProfile fetches the caller's profile.
func (c *Client) GetProfile(ctx context.Context) (*CandidateProfile, error) {
	var profile CandidateProfile
	if err := c.do(ctx, http.MethodGet, "/api/candidates/profile", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// PutProfile persists the whole profile. The upstream has no field-level
// patching; forms submit the full document.
func (c *Client) PutProfile(ctx context.Context, profile CandidateProfile) (*CandidateProfile, error) {
	var saved CandidateProfile
	if err := c.do(ctx, http.MethodPut, "/api/candidates/profile", nil, profile, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DashboardStats is the upstream's precomputed dashboard counters.
type DashboardStats struct {
	ActiveApplications  int `json:"activeApplications"`
	UpcomingInterviews  int `json:"upcomingInterviews"`
	UnreadNotifications int `json:"unreadNotifications"`
	ProfileCompleteness int `json:"profileCompleteness"`
}

// GetDashboardStats fetches the candidate dashboard counters.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/candidates/dashboard", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
