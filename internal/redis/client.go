package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nutriva/brand-site-server/internal/config"
)

type Client struct {
	*redis.Client
}

func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, config.DBPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// SessionKey is the key holding a single session record.
func SessionKey(tokenHash string) string {
	return fmt.Sprintf("session:%s", tokenHash)
}

// AccountSessionsKey is the set of session token hashes issued to an account.
func AccountSessionsKey(accountID string) string {
	return fmt.Sprintf("session:account:%s", accountID)
}

// LoginAttemptsKey is the sorted set backing the login throttle for one key.
func LoginAttemptsKey(key string) string {
	return fmt.Sprintf("ratelimit:login:%s", key)
}
