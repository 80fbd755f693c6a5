package upstream

import (
	"context"
	"net/http"
)

// ListNotifications fetches the caller's mailbox. Archived entries are
// excluded unless includeArchived is set.
func (c *Client) ListNotifications(ctx context.Context, includeArchived bool) ([]Notification, error) {
	q := listQuery(0, 0, nil)
	if includeArchived {
		q.Set("archived", "true")
	}

	var notes []Notification
	if err := c.do(ctx, http.MethodGet, "/api/candidate/notifications", q, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// BulkNotificationAction applies one action to a set of notifications.
func (c *Client) BulkNotificationAction(ctx context.Context, action NotificationAction, ids []string) error {
	body := map[string]any{"action": string(action), "ids": ids}
	return c.do(ctx, http.MethodPost, "/api/candidates/notifications/bulk", nil, body, nil)
}
