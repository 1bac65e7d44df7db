package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "agendamento"

// RedisLedger implements Ledger on top of a Redis key-value store with
// per-entry TTL expiry.
type RedisLedger struct {
	Client *redis.Client
	Logger *zap.Logger
}

func NewRedisLedger(client *redis.Client, logger *zap.Logger) *RedisLedger {
	return &RedisLedger{Client: client, Logger: logger}
}

// redisKey joins the key components with a fixed delimiter. Specialty is
// lowercased and the practitioner name normalized so that rendering variants
// of the same slot map to the same key.
func redisKey(k Key) string {
	return strings.Join([]string{
		keyPrefix,
		k.RequesterID,
		strings.ToLower(k.Specialty),
		k.Date,
		k.Time,
		NormalizeName(k.Practitioner),
	}, ":")
}

func (l *RedisLedger) Register(ctx context.Context, entry Entry, ttl time.Duration) error {
	key := redisKey(Key{
		RequesterID:  entry.RequesterID,
		Specialty:    entry.Specialty,
		Date:         entry.Date,
		Time:         entry.Time,
		Practitioner: entry.Practitioner,
	})

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("ledger: failed to marshal entry: %w", err)
	}

	if err := l.Client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("ledger: failed to register entry: %w", err)
	}
	l.Logger.Debug("Slot recorded in dedup ledger", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (l *RedisLedger) AlreadyOffered(ctx context.Context, key Key) (bool, error) {
	n, err := l.Client.Exists(ctx, redisKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("ledger: lookup failed: %w", err)
	}
	return n == 1, nil
}

// TTLForEntry returns the expiry to apply to a new entry: either the fixed
// configured TTL or, under the until-midnight policy, the seconds remaining
// until the next local midnight so offers reset daily.
func TTLForEntry(now time.Time, fixed time.Duration, untilMidnight bool) time.Duration {
	if !untilMidnight {
		return fixed
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
