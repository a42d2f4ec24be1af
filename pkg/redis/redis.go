package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulhadi30211/luminvera-backend/config"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// TokenStore keeps revoked access tokens in Redis until they expire, so a
// logged-out token stops working before its JWT expiry.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore connects to Redis and verifies the connection
func NewTokenStore(cfg *config.RedisConfig) (*TokenStore, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return &TokenStore{client: client}, nil
}

// Close closes the Redis connection
func (s *TokenStore) Close() error {
	if s.client != nil {
		logger.Info("Closing Redis connection", nil)
		return s.client.Close()
	}
	return nil
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// BlacklistToken marks a token as revoked for ttl
func (s *TokenStore) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"ttl": ttl.String(),
	})

	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token has been revoked
func (s *TokenStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	val, err := s.client.Get(ctx, blacklistKey(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}
	return val == "revoked", nil
}
