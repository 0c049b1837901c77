//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"oleobot/internal/dialogue/models"
	"oleobot/internal/dialogue/store"
	"oleobot/pkg/platform/sentinel"
	"oleobot/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTripKeepsDraft() {
	ctx := context.Background()
	conv, err := models.NewConversation(42, models.FlowRegistration, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(ctx, conv))

	conv.Registration.InstitutionName = "Escola Paulo Freire"
	s.Require().NoError(conv.Advance(models.StateAwaitingResponsibleName, time.Now()))
	s.Require().NoError(s.store.Update(ctx, conv))

	got, err := s.store.Get(ctx, 42)
	s.Require().NoError(err)
	s.Equal(models.StateAwaitingResponsibleName, got.State)
	s.Equal("Escola Paulo Freire", got.Registration.InstitutionName)
	s.Equal(conv.Version, got.Version)

	s.Require().NoError(s.store.Delete(ctx, 42))
	_, err = s.store.Get(ctx, 42)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentUpdatesOneWins verifies WATCH-guarded updates let exactly one
// writer advance a given version.
func (s *RedisStoreSuite) TestConcurrentUpdatesOneWins() {
	ctx := context.Background()
	conv, err := models.NewConversation(43, models.FlowRegistration, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(ctx, conv))

	const goroutines = 20
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mine := *conv
			mine.State = models.StateAwaitingResponsibleName
			err := s.store.Update(ctx, &mine)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, store.ErrConversationChanged):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *RedisStoreSuite) TestStaleStepCannotOverwriteReenteredFlow() {
	ctx := context.Background()
	reg, err := models.NewConversation(46, models.FlowRegistration, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(ctx, reg))
	stale, err := s.store.Get(ctx, 46)
	s.Require().NoError(err)

	donation, err := models.NewConversation(46, models.FlowDonation, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(ctx, donation))

	stale.State = models.StateAwaitingResponsibleName
	s.ErrorIs(s.store.Update(ctx, stale), store.ErrConversationChanged)

	got, err := s.store.Get(ctx, 46)
	s.Require().NoError(err)
	s.Equal(models.FlowDonation, got.Flow)
	s.Equal(donation.ID, got.ID)
}

func (s *RedisStoreSuite) TestTTLExpiresConversation() {
	ctx := context.Background()
	ttlStore := store.NewRedis(s.redis.Client, store.WithTTL(time.Hour))
	conv, err := models.NewConversation(44, models.FlowDonation, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(ttlStore.Put(ctx, conv))

	ttl, err := s.redis.Client.TTL(ctx, "oleobot:conversation:44").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	withoutTTL, err := models.NewConversation(45, models.FlowDonation, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(ctx, withoutTTL))
	ttl, err = s.redis.Client.TTL(ctx, "oleobot:conversation:45").Result()
	s.Require().NoError(err)
	s.Equal(time.Duration(-1), ttl)
}
