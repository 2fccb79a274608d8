package tenant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saasbase/saasbase/pkg/logger"
)

// redisRouteCache shares resolved routes across processes through Redis.
// Cache failures degrade to a directory lookup rather than failing the
// request, so Get treats any Redis error as a miss.
type redisRouteCache struct {
	client    *redis.Client
	keyPrefix string
	log       *slog.Logger
}

// NewRedisRouteCache creates a Redis-backed route cache. The client's
// lifecycle stays with the caller; Close here is a no-op on the client.
func NewRedisRouteCache(client *redis.Client, keyPrefix string, log *slog.Logger) RouteCache {
	if keyPrefix == "" {
		keyPrefix = "tenant:route:"
	}
	if log == nil {
		log = slog.Default()
	}
	return &redisRouteCache{client: client, keyPrefix: keyPrefix, log: log}
}

func (c *redisRouteCache) Get(ctx context.Context, subdomain string) (*Route, bool) {
	data, err := c.client.Get(ctx, c.keyPrefix+subdomain).Bytes()
	if err != nil {
		return nil, false
	}

	var route Route
	if err := json.Unmarshal(data, &route); err != nil {
		// A corrupt entry is unusable; drop it so it gets rebuilt.
		c.client.Del(ctx, c.keyPrefix+subdomain)
		return nil, false
	}

	return &route, true
}

func (c *redisRouteCache) Set(ctx context.Context, subdomain string, route *Route, ttl time.Duration) {
	data, err := json.Marshal(route)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.keyPrefix+subdomain, data, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "failed to cache tenant route",
			logger.Subdomain(subdomain),
			logger.Error(err),
		)
	}
}

func (c *redisRouteCache) Delete(ctx context.Context, subdomain string) {
	if err := c.client.Del(ctx, c.keyPrefix+subdomain).Err(); err != nil {
		c.log.WarnContext(ctx, "failed to invalidate tenant route",
			logger.Subdomain(subdomain),
			logger.Error(err),
		)
	}
}

func (c *redisRouteCache) Close() error {
	return nil
}
