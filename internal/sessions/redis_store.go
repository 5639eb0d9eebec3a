package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON under "session:<id>" with a native Redis
// TTL, plus a per-user index set "user_sessions:<userId>" used for enumeration
// and logout-all.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// rotateScript is the atomic rotation primitive. The conditional DEL of the old
// key is the linearization point: of two concurrent rotations of the same id,
// exactly one observes DEL == 1 and installs the replacement.
var rotateScript = redis.NewScript(`
if redis.call("DEL", KEYS[1]) == 0 then
  return 0
end
redis.call("SREM", KEYS[3], ARGV[1])
redis.call("SET", KEYS[2], ARGV[3], "PX", ARGV[4])
redis.call("SADD", KEYS[3], ARGV[2])
redis.call("PEXPIRE", KEYS[3], ARGV[4])
return 1
`)

// NewRedisStore creates a Redis-backed session store. Prefix may be empty;
// ttl governs every created session (default 7 days when zero).
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }

func (r *RedisStore) indexKey(userID string) string { return "user_sessions:" + userID }

// newSessionID returns a 128-bit random hex id.
func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (r *RedisStore) Create(ctx context.Context, userID, username, deviceInfo string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	s := &RefreshSession{
		ID:         id,
		UserID:     userID,
		Username:   username,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(r.ttl),
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	if err := r.client.Set(ctx, r.key(id), b, r.ttl).Err(); err != nil {
		return "", err
	}
	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, r.indexKey(userID), id)
	// keep the index alive at least as long as its newest session
	pipe.PExpire(ctx, r.indexKey(userID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (r *RedisStore) Validate(ctx context.Context, id string) (*RefreshSession, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s RefreshSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	// lastUsedAt is observability only. KEEPTTL preserves the remaining
	// lifetime; expiration is fixed at creation and never slides.
	s.LastUsedAt = time.Now().UTC()
	nb, err := json.Marshal(&s)
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, r.key(id), nb, redis.KeepTTL).Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Revoke(ctx context.Context, id string) (bool, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	var s RefreshSession
	if err := json.Unmarshal(b, &s); err != nil {
		return false, err
	}
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return false, err
	}
	_ = r.client.SRem(ctx, r.indexKey(s.UserID), id).Err()
	return n > 0, nil
}

func (r *RedisStore) RevokeAll(ctx context.Context, userID string) (int, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, id := range ids {
		n, err := r.client.Del(ctx, r.key(id)).Result()
		if err != nil {
			// best effort: keep going, report what was removed
			continue
		}
		count += int(n)
	}
	_ = r.client.Del(ctx, r.indexKey(userID)).Err()
	return count, nil
}

func (r *RedisStore) ListActive(ctx context.Context, userID string) ([]RefreshSession, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	out := make([]RefreshSession, 0, len(ids))
	for _, id := range ids {
		b, err := r.client.Get(ctx, r.key(id)).Bytes()
		if err == redis.Nil {
			// session expired naturally; prune the stale index entry
			_ = r.client.SRem(ctx, r.indexKey(userID), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		var s RefreshSession
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Rotate retires oldID and issues a replacement session for the same user in a
// single atomic step. Returns the old session's identity and the new id, or
// ErrNotFound when oldID is unknown or a concurrent rotation already won.
func (r *RedisStore) Rotate(ctx context.Context, oldID, deviceInfo string) (*RefreshSession, string, error) {
	b, err := r.client.Get(ctx, r.key(oldID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	var old RefreshSession
	if err := json.Unmarshal(b, &old); err != nil {
		return nil, "", err
	}

	newID, err := newSessionID()
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	next := &RefreshSession{
		ID:         newID,
		UserID:     old.UserID,
		Username:   old.Username,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(r.ttl),
	}
	payload, err := json.Marshal(next)
	if err != nil {
		return nil, "", err
	}

	ok, err := rotateScript.Run(ctx, r.client,
		[]string{r.key(oldID), r.key(newID), r.indexKey(old.UserID)},
		oldID, newID, payload, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return nil, "", err
	}
	if ok == 0 {
		return nil, "", ErrNotFound
	}
	return &old, newID, nil
}
