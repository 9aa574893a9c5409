package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/samvaad/backend/pkg/logger"
)

// Client caches keyword frequency maps. The durable store never lives here;
// redis only saves round trips to the keyword service.
type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) GetKeywords(ctx context.Context, key string) (map[string]int, bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("keywords:%s", key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get keyword cache: %w", err)
	}

	var frequencies map[string]int
	if err := json.Unmarshal(data, &frequencies); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal keyword cache: %w", err)
	}

	logger.Debug("Keyword cache hit", zap.String("key", key))
	return frequencies, true, nil
}

func (c *Client) SetKeywords(ctx context.Context, key string, frequencies map[string]int, ttl time.Duration) error {
	data, err := json.Marshal(frequencies)
	if err != nil {
		return fmt.Errorf("failed to marshal keyword cache: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("keywords:%s", key), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set keyword cache: %w", err)
	}

	logger.Debug("Keywords cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}
