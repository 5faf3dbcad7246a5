package feature

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces flag keys in a shared Redis instance.
const redisKeyPrefix = "feature_flag:"

// RedisRegistry reads flags from Redis. The admin surface writes each flag
// as a JSON value under "feature_flag:<key>"; this registry fetches per
// lookup, so flag changes take effect on the next request.
type RedisRegistry struct {
	client redis.UniversalClient
}

// NewRedisRegistry returns a registry reading from the given client. The
// caller owns the client's lifecycle.
func NewRedisRegistry(client redis.UniversalClient) (*RedisRegistry, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return &RedisRegistry{client: client}, nil
}

func (r *RedisRegistry) Get(ctx context.Context, key string) (*Flag, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrFlagNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrRegistryUnavailable, err)
	}

	var f Flag
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Join(ErrInvalidFlag, err)
	}
	if f.Key == "" {
		f.Key = key
	}
	return &f, nil
}
