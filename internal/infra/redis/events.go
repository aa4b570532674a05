package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "stripe:event:"
	DefaultTTL = 72 * time.Hour
)

// ProcessedEvents remembers the ids of webhook events that were fully applied.
type ProcessedEvents struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewProcessedEvents(client goredis.UniversalClient, ttl time.Duration) *ProcessedEvents {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProcessedEvents{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (p *ProcessedEvents) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	_, err := p.client.Get(ctx, keyPrefix+eventID).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup event %s: %w", eventID, err)
	}
	return true, nil
}

func (p *ProcessedEvents) MarkProcessed(ctx context.Context, eventID string) error {
	if err := p.client.Set(ctx, keyPrefix+eventID, time.Now().UTC().Format(time.RFC3339), p.ttl).Err(); err != nil {
		return fmt.Errorf("mark event %s: %w", eventID, err)
	}
	return nil
}
