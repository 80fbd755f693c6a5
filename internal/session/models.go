// Package session resolves the opaque session cookie into a per-request
// Session value. The value is resolved once by the access middleware and
// threaded through the request context; nothing in the gateway holds session
// state globally.
package session

import (
	"time"

	"talentgate/pkg/domain"
)

// Session is the authenticated principal behind a session token.
type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Role      domain.Role `json:"role"`
	CompanyID string      `json:"company_id,omitempty"`
	Email     string      `json:"email"`

	// Device metadata recorded at issuance, shown on the settings page.
	Device      string `json:"device,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// Active reports whether the session may still be honored at the given time.
func (s *Session) Active(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// Summary is the view of a session returned to the settings page.
type Summary struct {
	SessionID  string    `json:"session_id"`
	Device     string    `json:"device"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	IsCurrent  bool      `json:"is_current"`
}

// Summarize builds the settings-page view of a session.
func (s *Session) Summarize(currentID string) Summary {
	return Summary{
		SessionID:  s.ID,
		Device:     s.Device,
		IPAddress:  s.IPAddress,
		CreatedAt:  s.CreatedAt,
		LastSeenAt: s.LastSeenAt,
		IsCurrent:  s.ID == currentID,
	}
}
