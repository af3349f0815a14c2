//go:build integration

package throttle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"opus/internal/gate/models"
	"opus/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "gate_throttles")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestConformance() {
	runStoreConformance(s.T(), s.store)
}

// TestConcurrentStrikes verifies that racing high-similarity checks never
// push the strike count past the cap and always end in a ban.
func (s *PostgresStoreSuite) TestConcurrentStrikes() {
	ctx := context.Background()
	now := time.Now().UTC()
	const goroutines = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.store.RecordCheckAtomic(ctx, "racer", 95, now)
			s.Require().NoError(err)
		}()
	}
	wg.Wait()

	state, err := s.store.Get(ctx, "racer")
	s.Require().NoError(err)
	s.Require().NotNil(state)
	s.Equal(models.MaxStrikes, state.HighSimilarityCount)
	s.True(state.IsBanned)
}

// TestBannedRowIsFrozen verifies the banned state absorbs further checks
// without mutating any column.
func (s *PostgresStoreSuite) TestBannedRowIsFrozen() {
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < models.MaxStrikes; i++ {
		_, _, err := s.store.RecordCheckAtomic(ctx, "frozen", 80, now)
		s.Require().NoError(err)
	}

	before, err := s.store.Get(ctx, "frozen")
	s.Require().NoError(err)
	s.Require().True(before.IsBanned)

	allowed, after, err := s.store.RecordCheckAtomic(ctx, "frozen", 5, now.Add(time.Hour))
	s.Require().NoError(err)
	s.False(allowed)
	s.Equal(before.ChecksRemaining, after.ChecksRemaining)
	s.Equal(before.HighSimilarityCount, after.HighSimilarityCount)
	s.WithinDuration(before.UpdatedAt, after.UpdatedAt, time.Millisecond)
}
