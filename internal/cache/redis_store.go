package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/utils"
)

type redisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisSessionStore connects to REDIS_ADDR and pings before returning.
// Session keys carry a sliding TTL (SESSION_TTL_HOURS, default 30 days)
// refreshed on every write; the engine itself has no expiry contract.
func NewRedisSessionStore(log *logger.Logger) (SessionStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "localhost:6379", log))
	password := utils.GetEnv("REDIS_PASSWORD", "", nil)
	ttlHours := utils.GetEnvAsInt("SESSION_TTL_HOURS", 24*30, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{
		log: log.With("service", "RedisSessionStore"),
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func sessionKey(namespace, sessionID string) string {
	return "session:" + namespace + ":" + sessionID
}

func (s *redisStore) Load(ctx context.Context, namespace, sessionID string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, sessionKey(namespace, sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session %s/%s: %w", namespace, sessionID, err)
	}
	return data, nil
}

func (s *redisStore) Save(ctx context.Context, namespace, sessionID string, payload []byte) error {
	if err := s.rdb.Set(ctx, sessionKey(namespace, sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s/%s: %w", namespace, sessionID, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, namespace, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(namespace, sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s/%s: %w", namespace, sessionID, err)
	}
	return nil
}
