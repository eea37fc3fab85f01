//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"claimbank/internal/claim/models"
	"claimbank/internal/claim/store"
	platformredis "claimbank/internal/platform/redis"
	"claimbank/pkg/platform/sentinel"
	"claimbank/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	inner  *store.InMemory
	cached *store.Cached
	now    time.Time
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.inner = store.NewInMemory()
	client := &platformredis.Client{Client: s.redis.Client}
	s.cached = store.NewCached(s.inner, client, time.Minute)
}

func (s *CachedStoreSuite) create() *models.Claim {
	claim, err := models.NewClaim(models.CreateClaimParams{
		Creditor:    "alice",
		Debtor:      "bob",
		ClaimAmount: 100,
		Token:       "WETH",
	}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.cached.Create(context.Background(), claim))
	return claim
}

func (s *CachedStoreSuite) cacheExists(id int64) bool {
	n, err := s.redis.Client.Exists(context.Background(), fmt.Sprintf("claim:%d", id)).Result()
	s.Require().NoError(err)
	return n == 1
}

func (s *CachedStoreSuite) TestGetPopulatesCache() {
	ctx := context.Background()
	claim := s.create()
	s.False(s.cacheExists(claim.ID))

	loaded, err := s.cached.Get(ctx, claim.ID)
	s.Require().NoError(err)
	s.Equal(claim.Creditor, loaded.Creditor)
	s.True(s.cacheExists(claim.ID))

	// second read is served from the cache
	again, err := s.cached.Get(ctx, claim.ID)
	s.Require().NoError(err)
	s.Equal(loaded.ClaimAmount, again.ClaimAmount)
}

func (s *CachedStoreSuite) TestUpdateInvalidates() {
	ctx := context.Background()
	claim := s.create()

	_, err := s.cached.Get(ctx, claim.ID)
	s.Require().NoError(err)
	s.True(s.cacheExists(claim.ID))

	claim.ApplyPayment(100, s.now.Add(time.Minute))
	s.Require().NoError(s.cached.Update(ctx, claim))
	s.False(s.cacheExists(claim.ID))

	loaded, err := s.cached.Get(ctx, claim.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPaid, loaded.Status)
}

func (s *CachedStoreSuite) TestNotFoundIsNotCached() {
	_, err := s.cached.Get(context.Background(), 12)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.False(s.cacheExists(12))
}

func TestCachedStoreSuite(t *testing.T) {
	suite.Run(t, new(CachedStoreSuite))
}
