package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bmgvallo/hirearchy-gateway/internal/config"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// RedisStore persists sessions in Redis with the configured TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisStore creates a session store from config
func NewRedisStore(cfg *config.Config, logger logging.Logger) *RedisStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	ttl := cfg.Sessions.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &RedisStore{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}
}

// Put stores the session, resetting its TTL
func (s *RedisStore) Put(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.Token), payload, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to store session", map[string]interface{}{
			"role":  string(session.Role),
			"error": err.Error(),
		})
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get resolves a token to its session
func (s *RedisStore) Get(ctx context.Context, token string) (*models.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes the session; deleting an absent token is not an error
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// Ping tests the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
