// Package redishost stores session snapshots in Redis as JSON values with a
// TTL, so fill-in sessions survive restarts and can be served by any replica.
package redishost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formbuilder/pkg/session"
)

// Config for the Redis backed Host. Defaults can be loaded via envdecode.
type Config struct {
	// RedisAddr like "localhost:6379". ENV: REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix for all keys. ENV: SESSION_KEY_PREFIX
	KeyPrefix string `env:"SESSION_KEY_PREFIX,default=formbuilder:sessions:"`
}

type Host struct {
	client    *redis.Client
	keyPrefix string
}

var _ session.Host = (*Host)(nil)

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Host, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(context.Background()).Err(); err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("redishost: ping: %w", err)
	}
	return NewWithClient(cl, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, keyPrefix string) *Host {
	if keyPrefix == "" {
		keyPrefix = "formbuilder:sessions:"
	}
	return &Host{client: client, keyPrefix: keyPrefix}
}

// NewFromEnv builds a Host using envdecode to populate Config.
func NewFromEnv() (*Host, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("redishost: decode env: %w", err)
	}
	return New(cfg)
}

// Close closes the Redis client.
func (h *Host) Close() error { return h.client.Close() }

func (h *Host) key(id string) string { return h.keyPrefix + id }

func (h *Host) claimKey(id string) string { return h.keyPrefix + id + ":claim" }

// releaseScript deletes the claim only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Claim sets a token under the claim key with SET NX and the given ttl.
func (h *Host) Claim(ctx context.Context, id string, ttl time.Duration) (session.Release, error) {
	token := uuid.NewString()
	ok, err := h.client.SetNX(ctx, h.claimKey(id), token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redishost: claim %s: %w", id, err)
	}
	if !ok {
		return nil, session.ErrSessionBusy
	}
	key := h.claimKey(id)
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, h.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("redishost: release %s: %w", id, err)
		}
		return nil
	}, nil
}

// Load returns the stored snapshot or session.ErrSessionNotFound.
func (h *Host) Load(ctx context.Context, id string) (session.Snapshot, error) {
	data, err := h.client.Get(ctx, h.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Snapshot{}, session.ErrSessionNotFound
		}
		return session.Snapshot{}, fmt.Errorf("redishost: get %s: %w", id, err)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("redishost: decode snapshot %s: %w", id, err)
	}
	return snap, nil
}

// Save writes snap under id. A ttl of zero stores it without expiry.
func (h *Host) Save(ctx context.Context, id string, snap session.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redishost: encode snapshot %s: %w", id, err)
	}
	if err := h.client.Set(ctx, h.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("redishost: set %s: %w", id, err)
	}
	return nil
}

// Delete removes id. Missing ids are not an error.
func (h *Host) Delete(ctx context.Context, id string) error {
	if err := h.client.Del(ctx, h.key(id)).Err(); err != nil {
		return fmt.Errorf("redishost: del %s: %w", id, err)
	}
	return nil
}
