package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"talentgate/internal/session/device"
	"talentgate/internal/session/token"
	"talentgate/pkg/platform/sentinel"
	"talentgate/pkg/requestcontext"
)

// Lookup is the slice of the session store the resolver needs. Defined here,
// where it is consumed, so the store packages stay import-cycle free.
type Lookup interface {
	FindByID(ctx context.Context, id string) (*Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
}

// Resolver turns a raw session cookie value into a Session: token signature
// and expiry first, then the store for revocation and liveness. The resolved
// value is per-request; the resolver itself holds no mutable state.
type Resolver struct {
	tokens         *token.Service
	store          Lookup
	fingerprintKey []byte
	logger         *slog.Logger
}

func NewResolver(tokens *token.Service, store Lookup, fingerprintKey string, logger *slog.Logger) *Resolver {
	return &Resolver{
		tokens:         tokens,
		store:          store,
		fingerprintKey: []byte(fingerprintKey),
		logger:         logger,
	}
}

// ValidateToken checks only the token itself (signature, expiry, role). The
// interview gate uses this cheaper check; it does not consult the store.
func (r *Resolver) ValidateToken(raw string) (*token.Claims, error) {
	return r.tokens.Validate(raw)
}

// Resolve validates the token and loads the backing session record. It
// returns sentinel errors for the distinguishable failure states so the
// middleware can treat them all as "unauthenticated" while logging the cause.
func (r *Resolver) Resolve(ctx context.Context, raw string, now time.Time) (*Session, error) {
	claims, err := r.tokens.Validate(raw)
	if err != nil {
		return nil, err
	}

	sess, err := r.store.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", claims.SessionID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if sess.RevokedAt != nil {
		return nil, fmt.Errorf("session %s: %w", sess.ID, sentinel.ErrRevoked)
	}
	if !now.Before(sess.ExpiresAt) {
		return nil, fmt.Errorf("session %s: %w", sess.ID, sentinel.ErrExpired)
	}

	r.checkFingerprint(ctx, sess)

	// Best effort; a failed touch must not fail the request.
	if err := r.store.Touch(ctx, sess.ID, now); err != nil {
		r.logger.WarnContext(ctx, "failed to touch session",
			"session_id", sess.ID,
			"error", err,
		)
	}

	return sess, nil
}

// checkFingerprint compares the session's recorded device fingerprint against
// the current request. A mismatch is logged for the audit story but does not
// deny the request; users legitimately roam networks and upgrade browsers.
func (r *Resolver) checkFingerprint(ctx context.Context, sess *Session) {
	if sess.Fingerprint == "" {
		return
	}

	ua := requestcontext.UserAgent(ctx)
	ip := requestcontext.ClientIP(ctx)
	if ua == "" && ip == "" {
		return
	}

	if device.Fingerprint(r.fingerprintKey, ua, ip) != sess.Fingerprint {
		r.logger.WarnContext(ctx, "session device fingerprint mismatch",
			"session_id", sess.ID,
			"recorded_device", sess.Device,
			"current_device", device.Summarize(ua),
			"client_ip", ip,
		)
	}
}
