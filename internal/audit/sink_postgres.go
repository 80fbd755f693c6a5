package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresSink materializes audit events into the access_events table for
// querying. Inserts are idempotent via ON CONFLICT DO NOTHING so a retried
// batch never duplicates rows.
type PostgresSink struct {
	db *sql.DB
}

// OpenPostgresSink opens a connection pool against the given DSN and verifies it.
func OpenPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit postgres: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

// NewPostgresSink wraps an existing pool (used by tests).
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Append(ctx context.Context, events []Event) error {
	const query = `
		INSERT INTO access_events (
			id, category, timestamp, action, path, class, reason,
			user_id, role, email, request_id, client_ip
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`

	for _, event := range events {
		_, err := s.db.ExecContext(ctx, query,
			event.ID,
			string(event.Category),
			event.Timestamp,
			event.Action,
			event.Path,
			event.Class,
			event.Reason,
			nullable(event.UserID),
			nullable(event.Role),
			nullable(event.Email),
			nullable(event.RequestID),
			nullable(event.ClientIP),
		)
		if err != nil {
			return fmt.Errorf("insert audit event %s: %w", event.ID, err)
		}
	}
	return nil
}

// ListRecent returns the N most recent events, newest first.
func (s *PostgresSink) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	const query = `
		SELECT id, category, timestamp, action, path, class, reason,
			   user_id, role, email, request_id, client_ip
		FROM access_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event    Event
			category string
			userID   sql.NullString
			role     sql.NullString
			email    sql.NullString
			reqID    sql.NullString
			clientIP sql.NullString
		)
		err := rows.Scan(
			&event.ID, &category, &event.Timestamp, &event.Action,
			&event.Path, &event.Class, &event.Reason,
			&userID, &role, &email, &reqID, &clientIP,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = EventCategory(category)
		event.UserID = userID.String
		event.Role = role.String
		event.Email = email.String
		event.RequestID = reqID.String
		event.ClientIP = clientIP.String
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
