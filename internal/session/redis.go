package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

var _ Store = (*RedisStore)(nil)

const keyPrefix = "clubbot:session:"

// RedisStore keeps sessions in Redis so several bot processes can share
// them. Expiry is the key TTL, refreshed on every Put.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func key(actor models.ActorID) string {
	return keyPrefix + strconv.FormatInt(int64(actor), 10)
}

// Get loads the actor's session.
func (r *RedisStore) Get(ctx context.Context, actor models.ActorID) (*Session, error) {
	data, err := r.client.Get(ctx, key(actor)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Fields == nil {
		s.Fields = map[string]string{}
	}
	return &s, nil
}

// Put writes the session with a fresh TTL.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	c := s.Clone()
	c.Updated = r.now().UTC()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, key(s.Actor), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Delete removes the actor's session key.
func (r *RedisStore) Delete(ctx context.Context, actor models.ActorID) error {
	if err := r.client.Del(ctx, key(actor)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
