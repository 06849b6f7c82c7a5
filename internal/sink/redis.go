package sink

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
)

// Redis defaults.
const (
	DefaultRedisChannel = "pulsehome:events"

	redisStateKeyPrefix = "pulsehome:device:"
	redisWriteTimeout   = 2 * time.Second
)

// RedisClient is the subset of *redis.Client used by the Redis sink.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Redis publishes every event on a pub/sub channel and caches the
// device's latest event under a per-device key.
//
// The cached state is for external readers; the hub never reads it back.
type Redis struct {
	client  RedisClient
	channel string
	ttl     time.Duration
	logger  Logger
}

// NewRedis creates a Redis sink. A zero ttl keeps state keys forever.
func NewRedis(client RedisClient, channel string, ttl time.Duration) *Redis {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &Redis{client: client, channel: channel, ttl: ttl, logger: noopLogger{}}
}

// SetLogger sets the logger for Redis failures.
func (r *Redis) SetLogger(logger Logger) {
	r.logger = orNoop(logger)
}

// StateKey returns the cache key for a device's latest state.
func StateKey(deviceName string) string {
	return redisStateKeyPrefix + device.Key(deviceName)
}

// Notify implements hub.Observer.
func (r *Redis) Notify(ev *device.Event) {
	payload, err := marshalEvent(ev)
	if err != nil {
		r.logger.Error("redis event encoding failed", "event_id", ev.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	key := StateKey(ev.DeviceName)
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("redis state cache failed", "key", key, "event_id", ev.ID, "error", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("redis publish failed", "channel", r.channel, "event_id", ev.ID, "error", err)
	}
}

var (
	_ hub.Observer = (*Redis)(nil)
	_ RedisClient  = (*redis.Client)(nil)
)
