package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"talentgate/internal/session"
	"talentgate/pkg/platform/sentinel"
)

const (
	sessionKeyPrefix   = "sess:id:"
	userIndexKeyPrefix = "sess:user:"
)

// RedisStore is the Redis-backed session store. This is the recommended
// implementation when multiple gateway instances share session state.
// Records expire with the session TTL; the per-user index is self-healing.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string   { return sessionKeyPrefix + id }
func userIndexKey(id string) string { return userIndexKeyPrefix + id }

func (s *RedisStore) Create(ctx context.Context, sess *session.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, sessionKey(sess.ID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, userIndexKey(sess.UserID), sess.ID)
	pipe.Expire(ctx, userIndexKey(sess.UserID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("index session: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (*session.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Touch(ctx context.Context, id string, at time.Time) error {
	sess, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !at.After(sess.LastSeenAt) {
		return nil
	}
	sess.LastSeenAt = at
	return s.save(ctx, sess)
}

func (s *RedisStore) Revoke(ctx context.Context, id string, at time.Time) error {
	sess, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sess.RevokedAt != nil {
		return sentinel.ErrRevoked
	}
	sess.RevokedAt = &at
	return s.save(ctx, sess)
}

func (s *RedisStore) ListByUser(ctx context.Context, userID string) ([]*session.Session, error) {
	ids, err := s.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list session index: %w", err)
	}

	now := time.Now()
	var out []*session.Session
	var stale []any
	for _, id := range ids {
		sess, err := s.FindByID(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if sess.Active(now) {
			out = append(out, sess)
		}
	}

	// Drop index entries whose records have expired.
	if len(stale) > 0 {
		_ = s.client.SRem(ctx, userIndexKey(userID), stale...).Err()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// save rewrites a session record preserving its remaining TTL.
func (s *RedisStore) save(ctx context.Context, sess *session.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
