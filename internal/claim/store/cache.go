package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"claimbank/internal/claim/models"
	platformredis "claimbank/internal/platform/redis"
	"claimbank/pkg/domain"
)

// Cached decorates a Store with a Redis read-through cache on Get.
// Writes go to the inner store first and then invalidate, so a cache
// outage degrades to slower reads, never to stale authorization or
// payment state. Not-found results are not cached: an id that was
// never assigned stays a store lookup.
type Cached struct {
	inner Store
	redis *platformredis.Client
	ttl   time.Duration
}

// NewCached wraps inner with a read-through claim cache.
func NewCached(inner Store, client *platformredis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, redis: client, ttl: ttl}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("claim:%d", id)
}

func (c *Cached) Create(ctx context.Context, claim *models.Claim) error {
	if err := c.inner.Create(ctx, claim); err != nil {
		return err
	}
	c.invalidate(ctx, claim.ID)
	return nil
}

func (c *Cached) Get(ctx context.Context, id int64) (*models.Claim, error) {
	// Cache miss, Redis outage, and a corrupt entry all fall through
	// to the inner store.
	if raw, err := c.redis.Get(ctx, cacheKey(id)).Bytes(); err == nil {
		var claim models.Claim
		if err := json.Unmarshal(raw, &claim); err == nil {
			return &claim, nil
		}
	}

	claim, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(claim); err == nil {
		c.redis.Set(ctx, cacheKey(id), payload, c.ttl)
	}
	return claim, nil
}

func (c *Cached) Update(ctx context.Context, claim *models.Claim) error {
	if err := c.inner.Update(ctx, claim); err != nil {
		return err
	}
	c.invalidate(ctx, claim.ID)
	return nil
}

func (c *Cached) ListByParty(ctx context.Context, party domain.Party) ([]*models.Claim, error) {
	return c.inner.ListByParty(ctx, party)
}

func (c *Cached) Count(ctx context.Context) (int, error) {
	return c.inner.Count(ctx)
}

func (c *Cached) invalidate(ctx context.Context, id int64) {
	c.redis.Del(ctx, cacheKey(id))
}
