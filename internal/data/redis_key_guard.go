package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/watchme/emotion-hume/internal/domain/model"
)

// DefaultLockPrefix namespaces per-recording analysis locks.
const DefaultLockPrefix = "emotion-hume:lock"

// releaseScript deletes the key only when it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisKeyGuard implements core.KeyGuard with SET NX PX and a compare-and-delete release.
type RedisKeyGuard struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisKeyGuard creates a guard on client. An empty prefix selects DefaultLockPrefix.
func NewRedisKeyGuard(client redis.UniversalClient, prefix string) *RedisKeyGuard {
	if prefix == "" {
		prefix = DefaultLockPrefix
	}
	return &RedisKeyGuard{client: client, prefix: prefix}
}

// LockKey returns the Redis key guarding a spot_features row.
func (g *RedisKeyGuard) LockKey(key model.FeatureKey) string {
	return g.prefix + ":" + key.DeviceID + ":" + key.RecordedAt
}

// TryLock claims key for ttl and returns the owner token on success.
func (g *RedisKeyGuard) TryLock(ctx context.Context, key model.FeatureKey, ttl time.Duration) (string, bool, error) {
	if key.DeviceID == "" || key.RecordedAt == "" {
		return "", false, errors.New("lock key requires device_id and recorded_at")
	}
	if ttl < time.Second {
		ttl = time.Second
	}

	token := uuid.NewString()
	_, err := g.client.SetArgs(ctx, g.LockKey(key), token, redis.SetArgs{Mode: "NX", TTL: ttl}).Result()
	if err != nil {
		// NX miss comes back as a nil reply.
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis SET NX: %w", err)
	}
	return token, true, nil
}

// Unlock releases key if token still owns it. It reports whether a key was deleted.
func (g *RedisKeyGuard) Unlock(ctx context.Context, key model.FeatureKey, token string) (bool, error) {
	n, err := releaseScript.Run(ctx, g.client, []string{g.LockKey(key)}, token).Int64()
	if err != nil {
		return false, fmt.Errorf("redis release lock: %w", err)
	}
	return n > 0, nil
}

// ForceUnlock deletes key regardless of owner.
func (g *RedisKeyGuard) ForceUnlock(ctx context.Context, key model.FeatureKey) (bool, error) {
	n, err := g.client.Del(ctx, g.LockKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}
