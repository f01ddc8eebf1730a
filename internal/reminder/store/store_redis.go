package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"docgate/internal/reminder"
	"docgate/pkg/domain"
	"docgate/pkg/platform/sentinel"
)

const lastSuccessKeyPrefix = "reminder:last-success:"

// RedisLog is the Redis-backed cooldown ledger, recommended for deployments
// running more than one gateway instance so rapid repeated clicks against
// different instances still hit one shared cooldown.
//
// Successful sends are stored under a TTL slightly above the cooldown; failed
// attempts are not stored because only successes arm the cooldown.
type RedisLog struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRedisLog constructs a Redis-backed reminder log. The cooldown fixes the
// key retention; the engine compares timestamps, the TTL only bounds growth.
func NewRedisLog(client *redis.Client, cooldown time.Duration) *RedisLog {
	return &RedisLog{client: client, cooldown: cooldown}
}

func (l *RedisLog) Append(ctx context.Context, record reminder.Record) error {
	if record.Outcome != reminder.OutcomeSuccess {
		return nil
	}
	key := lastSuccessKeyPrefix + record.DocumentID.String()
	// Keep the key one hour past the cooldown so a clock-skewed reader still
	// sees a just-expired success as expired rather than missing.
	return l.client.Set(ctx, key, record.AttemptedAt.UTC().Format(time.RFC3339Nano), l.cooldown+time.Hour).Err()
}

func (l *RedisLog) LastSuccess(ctx context.Context, id domain.DocumentID) (time.Time, error) {
	key := lastSuccessKeyPrefix + id.String()
	raw, err := l.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, sentinel.ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, err
	}
	return at, nil
}
