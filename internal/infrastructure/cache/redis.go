package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"rotrack/internal/config"
	"rotrack/internal/domain/reminder"
)

const dailyRemindersKeyFmt = "rotrack:reminders:%s"

// RedisReminderCache keeps the day's generated reminder list in Redis so every
// dashboard refresh does not recompute it. Entries expire after 48h; the date
// in the key makes stale reads across a day boundary impossible.
type RedisReminderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ reminder.Cache = (*RedisReminderCache)(nil)

func NewRedisReminderCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*RedisReminderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisReminderCache{
		client: client,
		ttl:    48 * time.Hour,
		logger: logger.With("component", "RedisReminderCache"),
	}, nil
}

func (c *RedisReminderCache) GetDaily(ctx context.Context, day string) ([]reminder.Reminder, bool, error) {
	raw, err := c.client.Get(ctx, fmt.Sprintf(dailyRemindersKeyFmt, day)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var reminders []reminder.Reminder
	if err := json.Unmarshal(raw, &reminders); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		c.logger.WarnContext(ctx, "Discarding unreadable cached reminders", slog.Any("error", err))
		return nil, false, nil
	}
	return reminders, true, nil
}

func (c *RedisReminderCache) SetDaily(ctx context.Context, day string, reminders []reminder.Reminder) error {
	raw, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("failed to marshal reminders: %w", err)
	}
	if err := c.client.Set(ctx, fmt.Sprintf(dailyRemindersKeyFmt, day), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisReminderCache) Close() error {
	return c.client.Close()
}
