package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound = errors.New("refresh token not found")
	ErrStoreDown     = errors.New("session store unavailable")
)

const keyPrefix = "refresh:"

type StoreConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// RefreshStore keeps opaque refresh tokens in Redis, keyed by token and
// holding the username they were issued to.
type RefreshStore struct {
	client *redis.Client
}

func NewRefreshStore(config *StoreConfig) *RefreshStore {
	if config == nil {
		config = DefaultStoreConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &RefreshStore{client: rdb}
}

// Issue creates a new refresh token for username that expires after ttl.
func (s *RefreshStore) Issue(ctx context.Context, username string, ttl time.Duration) (string, error) {
	token, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, keyPrefix+token.String(), username, ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreDown, err)
	}
	return token.String(), nil
}

// Consume returns the owner of token and removes it, so a refresh token
// can be exchanged once.
func (s *RefreshStore) Consume(ctx context.Context, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	username, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrStoreDown, err)
	}
	return username, nil
}

func (s *RefreshStore) Revoke(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	removed, err := s.client.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreDown, err)
	}
	if removed == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (s *RefreshStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return s.client.Ping(ctx).Err()
}

func (s *RefreshStore) Stats() map[string]interface{} {
	poolStats := s.client.PoolStats()

	return map[string]interface{}{
		"pool_hits":     poolStats.Hits,
		"pool_misses":   poolStats.Misses,
		"pool_timeouts": poolStats.Timeouts,
		"pool_total":    poolStats.TotalConns,
		"pool_idle":     poolStats.IdleConns,
		"pool_stale":    poolStats.StaleConns,
	}
}

func (s *RefreshStore) Close() error {
	return s.client.Close()
}
