package titlecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"opus/pkg/domain"
)

const titleKeyPrefix = "registry:title:"

// Cache maps titles to bucket ids in Redis so hot existence checks skip the
// database. Only positive entries are cached: a miss always falls through to
// the store, so a freshly registered title is visible immediately and a
// stale "does not exist" can never hide one.
//
// The cache is advisory. Every error degrades to a miss; Redis being down
// never fails a request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(client *redis.Client, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Lookup returns the cached bucket id for title, or ok=false on a miss.
func (c *Cache) Lookup(ctx context.Context, title string) (bucketID domain.BucketID, ok bool) {
	if c == nil || c.client == nil {
		return domain.BucketID{}, false
	}
	raw, err := c.client.Get(ctx, titleKey(title)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.BucketID{}, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "title cache lookup failed", "error", err)
		return domain.BucketID{}, false
	}
	bucketID, err = domain.ParseBucketID(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "title cache held invalid bucket id", "error", err)
		return domain.BucketID{}, false
	}
	return bucketID, true
}

// Store records that title resolves to bucketID. Failures are logged and
// swallowed.
func (c *Cache) Store(ctx context.Context, title string, bucketID domain.BucketID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, titleKey(title), bucketID.String(), c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "title cache store failed", "error", err)
	}
}

// Titles are arbitrary user text; hashing keeps keys bounded and safe for the
// keyspace whatever bytes the title contains.
func titleKey(title string) string {
	sum := sha256.Sum256([]byte(title))
	return titleKeyPrefix + hex.EncodeToString(sum[:])
}
