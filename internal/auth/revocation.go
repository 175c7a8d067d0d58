package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationChecker reports the instant before which a user's sessions are no
// longer valid. A zero time means nothing was revoked.
type RevocationChecker interface {
	RevokedBefore(ctx context.Context, uid string) (time.Time, error)
}

// CheckRevoked rejects identities whose session started before the user's
// revocation mark. auth_time is used when present, iat otherwise.
func CheckRevoked(ctx context.Context, rc RevocationChecker, id *Identity) error {
	if rc == nil || id == nil {
		return nil
	}
	since, err := rc.RevokedBefore(ctx, id.UID)
	if err != nil {
		return fmt.Errorf("revocation lookup: %w", err)
	}
	if since.IsZero() {
		return nil
	}
	started := id.AuthTime
	if started.IsZero() {
		started = id.IssuedAt
	}
	if started.Before(since) {
		return ErrTokenRevoked
	}
	return nil
}

const revokedKeyPrefix = "auth:revoked:"

// RedisRevocations stores one unix-seconds mark per user.
type RedisRevocations struct {
	rdb redis.Cmdable
}

func NewRedisRevocations(rdb redis.Cmdable) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

// RevokeTokens invalidates every session of uid that started before at.
func (r *RedisRevocations) RevokeTokens(ctx context.Context, uid string, at time.Time) error {
	if uid == "" {
		return errors.New("uid is required")
	}
	return r.rdb.Set(ctx, revokedKeyPrefix+uid, at.Unix(), 0).Err()
}

func (r *RedisRevocations) RevokedBefore(ctx context.Context, uid string) (time.Time, error) {
	raw, err := r.rdb.Get(ctx, revokedKeyPrefix+uid).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad revocation mark for %s: %w", uid, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}
