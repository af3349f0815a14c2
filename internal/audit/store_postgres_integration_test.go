//go:build integration

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

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
	s.store = NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "audit_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestAppendAndListByAuthor() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	events := []Event{
		{Timestamp: base, Author: "0xaa", Action: EventPaperRegistered, BucketID: "0x01", RequestID: "req-1"},
		{Timestamp: base.Add(time.Second), Author: "0xaa", Action: EventCheckRecorded, BucketID: "0x02"},
		{Timestamp: base.Add(2 * time.Second), Author: "0xbb", Action: EventAuthorBanned, Reason: "third high similarity strike"},
	}
	for _, e := range events {
		s.Require().NoError(s.store.Append(ctx, e))
	}

	got, err := s.store.ListByAuthor(ctx, "0xaa")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(EventPaperRegistered, got[0].Action)
	s.Equal("req-1", got[0].RequestID)
	s.Equal(EventCheckRecorded, got[1].Action)

	got, err = s.store.ListByAuthor(ctx, "0xbb")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("third high similarity strike", got[0].Reason)

	got, err = s.store.ListByAuthor(ctx, "0xcc")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *PostgresStoreSuite) TestOrderedByOccurrence() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	// Appended out of order on purpose.
	s.Require().NoError(s.store.Append(ctx, Event{Timestamp: base.Add(time.Minute), Author: "0xaa", Action: EventVersionAdded}))
	s.Require().NoError(s.store.Append(ctx, Event{Timestamp: base, Author: "0xaa", Action: EventPaperRegistered}))

	got, err := s.store.ListByAuthor(ctx, "0xaa")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(EventPaperRegistered, got[0].Action)
	s.Equal(EventVersionAdded, got[1].Action)
}
