package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"opus/internal/audit"
	"opus/internal/gate/models"
	"opus/internal/gate/store/throttle"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	sink    *audit.InMemoryStore
	service *Service
	author  domain.AuthorAddress
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.sink = audit.NewInMemoryStore()
	s.service = New(throttle.NewInMemory(),
		WithAuditPublisher(audit.NewPublisher(s.sink)),
	)
	var err error
	s.author, err = domain.ParseAuthorAddress("0x00112233445566778899aabbccddeeff00112233")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestRecordCheck() {
	ctx := context.Background()

	s.Run("clean check is allowed and spends an advisory check", func() {
		allowed, state, err := s.service.RecordCheck(ctx, s.author, 5)
		s.Require().NoError(err)
		s.True(allowed)
		s.Equal(models.InitialChecks-1, state.ChecksRemaining)
	})

	s.Run("out of range similarity is rejected", func() {
		_, _, err := s.service.RecordCheck(ctx, s.author, -1)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, _, err = s.service.RecordCheck(ctx, s.author, 100.5)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("zero author is rejected", func() {
		_, _, err := s.service.RecordCheck(ctx, domain.AuthorAddress{}, 10)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestBanLifecycle() {
	ctx := context.Background()

	for i := 0; i < models.MaxStrikes-1; i++ {
		allowed, _, err := s.service.RecordCheck(ctx, s.author, 75)
		s.Require().NoError(err)
		s.True(allowed)
	}

	s.Run("third strike denies and bans", func() {
		allowed, state, err := s.service.RecordCheck(ctx, s.author, 40)
		s.Require().NoError(err)
		s.False(allowed)
		s.True(state.IsBanned)
	})

	s.Run("ban emits exactly one audit event", func() {
		events, err := s.sink.ListByAuthor(ctx, s.author.String())
		s.Require().NoError(err)
		banned := 0
		for _, e := range events {
			if e.Action == audit.EventAuthorBanned {
				banned++
			}
		}
		s.Equal(1, banned)
	})

	s.Run("further checks stay denied without new audit", func() {
		allowed, _, err := s.service.RecordCheck(ctx, s.author, 0)
		s.Require().NoError(err)
		s.False(allowed)

		events, err := s.sink.ListByAuthor(ctx, s.author.String())
		s.Require().NoError(err)
		banned := 0
		for _, e := range events {
			if e.Action == audit.EventAuthorBanned {
				banned++
			}
		}
		s.Equal(1, banned)
	})
}

func (s *ServiceSuite) TestGetState() {
	ctx := context.Background()

	s.Run("unseen author gets the initial state", func() {
		state, err := s.service.GetState(ctx, s.author)
		s.Require().NoError(err)
		s.Equal(models.InitialChecks, state.ChecksRemaining)
		s.Equal(0, state.HighSimilarityCount)
		s.False(state.IsBanned)
	})

	s.Run("state reflects recorded checks", func() {
		_, _, err := s.service.RecordCheck(ctx, s.author, 50)
		s.Require().NoError(err)

		state, err := s.service.GetState(ctx, s.author)
		s.Require().NoError(err)
		s.Equal(models.InitialChecks-1, state.ChecksRemaining)
		s.Equal(1, state.HighSimilarityCount)
	})

	s.Run("zero author is rejected", func() {
		_, err := s.service.GetState(ctx, domain.AuthorAddress{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
