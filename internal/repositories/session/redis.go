package session

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-session/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-session/internal/redis"
)

const redisKeyPrefix = "tracker:"

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a Redis backed session repository. Snapshots
// are stored without expiry.
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Load retrieves the session stored under the key
func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	key := keyOrDefault(input.Key)

	data, err := r.client.Get(ctx, r.buildKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no session stored under %q", key)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get session from Redis")
	}

	return decodeStored(key, data)
}

// Save stores the session under the key
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	data, err := encodeSession(input)
	if err != nil {
		return nil, err
	}

	if err := r.client.Set(ctx, r.buildKey(keyOrDefault(input.Key)), data, 0).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store session in Redis")
	}

	return &SaveOutput{Bytes: len(data)}, nil
}

func (r *redisRepository) buildKey(key string) string {
	return redisKeyPrefix + key
}
