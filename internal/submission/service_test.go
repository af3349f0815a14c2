package submission

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"opus/internal/audit"
	"opus/internal/identity"
	registrymodels "opus/internal/registry/models"
	registryservice "opus/internal/registry/service"
	"opus/internal/scoring"
	"opus/internal/submission/mocks"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRegistry *mocks.MockRegistry
	mockGate     *mocks.MockGate
	mockScorer   *mocks.MockScorer
	mockContents *mocks.MockContentStore
	mockAudit    *mocks.MockAuditPublisher
	caller       domain.AuthorAddress
	owner        domain.AuthorAddress
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRegistry = mocks.NewMockRegistry(s.ctrl)
	s.mockGate = mocks.NewMockGate(s.ctrl)
	s.mockScorer = mocks.NewMockScorer(s.ctrl)
	s.mockContents = mocks.NewMockContentStore(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)

	var err error
	s.caller, err = domain.ParseAuthorAddress("0x00112233445566778899aabbccddeeff00112233")
	s.Require().NoError(err)
	s.owner, err = domain.ParseAuthorAddress("0xfeedfacefeedfacefeedfacefeedfacefeedface")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.mockAudit),
		WithContentStore(s.mockContents),
	}
	svc, err := New(s.mockRegistry, s.mockGate, s.mockScorer, append(base, opts...)...)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) bucketFor(title string) domain.BucketID {
	id, err := identity.DeriveBucketID(title, s.caller)
	s.Require().NoError(err)
	return id
}

func (s *ServiceSuite) paperFor(title string) *registrymodels.PaperRecord {
	record, err := registrymodels.NewPaperRecord(
		s.bucketFor(title), title, s.caller,
		identity.DeriveFingerprint("content"), time.Now().UTC(),
	)
	s.Require().NoError(err)
	return record
}

func (s *ServiceSuite) TestNew() {
	s.Run("nil collaborators are rejected", func() {
		_, err := New(nil, s.mockGate, s.mockScorer)
		s.Error(err)
		_, err = New(s.mockRegistry, nil, s.mockScorer)
		s.Error(err)
		_, err = New(s.mockRegistry, s.mockGate, nil)
		s.Error(err)
	})
}

func (s *ServiceSuite) TestSubmitPaper_CleanVerdict() {
	ctx := context.Background()
	svc := s.newService()
	title := "Fresh Work"
	record := s.paperFor(title)

	s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
		Return(registryservice.TitleCheck{Exists: false}, nil)
	s.mockScorer.EXPECT().Score(gomock.Any(), title, "body text", s.caller).
		Return(&scoring.Result{SimilarityPercent: 5, IsOriginal: true}, nil)
	// No gate call: clean verdicts never touch gate state.
	s.mockRegistry.EXPECT().RegisterPaper(gomock.Any(), title, s.caller, identity.DeriveFingerprint("body text"), s.bucketFor(title)).
		Return(record, nil)
	s.mockContents.EXPECT().Put(gomock.Any(), record.BucketID, title, "body text", s.caller.String(), record.CreatedAt).
		Return(nil)

	result, err := svc.SubmitPaper(ctx, s.caller, title, "body text")
	s.Require().NoError(err)
	s.Equal(record, result.Paper)
	s.False(result.Unchecked)
	s.InDelta(5, result.Similarity.SimilarityPercent, 1e-9)
}

func (s *ServiceSuite) TestSubmitPaper_OwnerResubmission() {
	ctx := context.Background()
	svc := s.newService()
	title := "Mine Already"

	s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
		Return(registryservice.TitleCheck{Exists: true, BucketID: s.bucketFor(title), Owner: s.caller}, nil)
	// No scoring, no gate, no registration.

	_, err := svc.SubmitPaper(ctx, s.caller, title, "updated body")
	s.Require().ErrorIs(err, ErrUseAddVersion)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestSubmitPaper_DuplicateTitle() {
	ctx := context.Background()
	svc := s.newService()
	title := "Someone Elses"

	s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
		Return(registryservice.TitleCheck{Exists: true, Owner: s.owner}, nil)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event audit.Event) error {
			s.Equal(audit.EventSubmissionRejected, event.Action)
			s.Equal("duplicate title", event.Reason)
			return nil
		})

	_, err := svc.SubmitPaper(ctx, s.caller, title, "copied body")
	s.Require().ErrorIs(err, ErrDuplicateTitle)
}

func (s *ServiceSuite) TestSubmitPaper_HighSimilarityAllowed() {
	ctx := context.Background()
	svc := s.newService()
	title := "Borderline Work"
	record := s.paperFor(title)

	s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
		Return(registryservice.TitleCheck{Exists: false}, nil)
	s.mockScorer.EXPECT().Score(gomock.Any(), title, "body", s.caller).
		Return(&scoring.Result{SimilarityPercent: 45, IsOriginal: false}, nil)
	// Exactly one gate check per gated attempt.
	s.mockGate.EXPECT().RecordCheck(gomock.Any(), s.caller, 45.0).
		Return(true, nil, nil).Times(1)
	s.mockRegistry.EXPECT().RegisterPaper(gomock.Any(), title, s.caller, gomock.Any(), gomock.Any()).
		Return(record, nil)
	s.mockContents.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	result, err := svc.SubmitPaper(ctx, s.caller, title, "body")
	s.Require().NoError(err)
	s.Equal(record, result.Paper)
}

func (s *ServiceSuite) TestSubmitPaper_GateDenies() {
	ctx := context.Background()
	svc := s.newService()
	title := "Strike Three"

	s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
		Return(registryservice.TitleCheck{Exists: false}, nil)
	s.mockScorer.EXPECT().Score(gomock.Any(), title, "body", s.caller).
		Return(&scoring.Result{SimilarityPercent: 80}, nil)
	s.mockGate.EXPECT().RecordCheck(gomock.Any(), s.caller, 80.0).
		Return(false, nil, nil)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	// No registration, no content write.

	_, err := svc.SubmitPaper(ctx, s.caller, title, "body")
	s.Require().ErrorIs(err, ErrAuthorBanned)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestSubmitPaper_ScoringOutage() {
	ctx := context.Background()
	title := "Unscored Work"

	s.Run("default policy surfaces unavailable", func() {
		svc := s.newService()
		s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
			Return(registryservice.TitleCheck{Exists: false}, nil)
		s.mockScorer.EXPECT().Score(gomock.Any(), title, "body", s.caller).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "scoring service unreachable"))

		_, err := svc.SubmitPaper(ctx, s.caller, title, "body")
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("policy flag lets the submission through with audit", func() {
		svc := s.newService(WithPolicy(Policy{AllowUncheckedOnScoringOutage: true}))
		record := s.paperFor(title)

		s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
			Return(registryservice.TitleCheck{Exists: false}, nil)
		s.mockScorer.EXPECT().Score(gomock.Any(), title, "body", s.caller).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "scoring service unreachable"))
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event audit.Event) error {
				s.Equal(audit.EventUncheckedSubmission, event.Action)
				return nil
			})
		s.mockRegistry.EXPECT().RegisterPaper(gomock.Any(), title, s.caller, gomock.Any(), gomock.Any()).
			Return(record, nil)
		s.mockContents.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		result, err := svc.SubmitPaper(ctx, s.caller, title, "body")
		s.Require().NoError(err)
		s.True(result.Unchecked)
		s.Nil(result.Similarity)
	})
}

func (s *ServiceSuite) TestSubmitPaper_Validation() {
	ctx := context.Background()
	svc := s.newService()

	_, err := svc.SubmitPaper(ctx, domain.AuthorAddress{}, "Title", "body")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = svc.SubmitPaper(ctx, s.caller, "", "body")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = svc.SubmitPaper(ctx, s.caller, "Title", "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSubmitPaper_ContentStoreFailureIsNotFatal() {
	ctx := context.Background()
	svc := s.newService()
	title := "Resilient Work"
	record := s.paperFor(title)

	s.mockRegistry.EXPECT().CheckTitleExists(gomock.Any(), title).
		Return(registryservice.TitleCheck{Exists: false}, nil)
	s.mockScorer.EXPECT().Score(gomock.Any(), title, "body", s.caller).
		Return(&scoring.Result{SimilarityPercent: 0, IsOriginal: true}, nil)
	s.mockRegistry.EXPECT().RegisterPaper(gomock.Any(), title, s.caller, gomock.Any(), gomock.Any()).
		Return(record, nil)
	s.mockContents.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(dErrors.New(dErrors.CodeUnavailable, "content service unreachable"))

	result, err := svc.SubmitPaper(ctx, s.caller, title, "body")
	s.Require().NoError(err)
	s.Equal(record, result.Paper)
}

func (s *ServiceSuite) TestSubmitVersion_DefaultBypassesGate() {
	ctx := context.Background()
	svc := s.newService()
	bucketID := s.bucketFor("Versioned Work")
	entry := registrymodels.VersionEntry{
		Fingerprint:    identity.DeriveFingerprint("v2"),
		SequenceNumber: 2,
		Timestamp:      time.Now().UTC(),
	}

	// No scorer, no gate calls on the default policy.
	s.mockRegistry.EXPECT().AddVersion(gomock.Any(), bucketID, s.caller, identity.DeriveFingerprint("v2"), "revised").
		Return(entry, nil)
	s.mockContents.EXPECT().AppendVersion(gomock.Any(), bucketID, "v2", entry.Timestamp).
		Return(nil)

	result, err := svc.SubmitVersion(ctx, s.caller, bucketID, "v2", "revised")
	s.Require().NoError(err)
	s.Equal(entry, *result.Version)
	s.Nil(result.Similarity)
}

func (s *ServiceSuite) TestSubmitVersion_GatedWhenPolicySet() {
	ctx := context.Background()
	svc := s.newService(WithPolicy(Policy{GateVersions: true}))
	title := "Versioned Work"
	record := s.paperFor(title)
	entry := registrymodels.VersionEntry{
		Fingerprint:    identity.DeriveFingerprint("v2"),
		SequenceNumber: 2,
		Timestamp:      time.Now().UTC(),
	}

	s.mockRegistry.EXPECT().GetPaper(gomock.Any(), record.BucketID).Return(record, nil)
	s.mockScorer.EXPECT().Score(gomock.Any(), title, "v2", s.caller).
		Return(&scoring.Result{SimilarityPercent: 55}, nil)
	s.mockGate.EXPECT().RecordCheck(gomock.Any(), s.caller, 55.0).
		Return(true, nil, nil).Times(1)
	s.mockRegistry.EXPECT().AddVersion(gomock.Any(), record.BucketID, s.caller, gomock.Any(), "revised").
		Return(entry, nil)
	s.mockContents.EXPECT().AppendVersion(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	result, err := svc.SubmitVersion(ctx, s.caller, record.BucketID, "v2", "revised")
	s.Require().NoError(err)
	s.InDelta(55, result.Similarity.SimilarityPercent, 1e-9)
}

func (s *ServiceSuite) TestSubmitVersion_OwnershipErrorsPropagate() {
	ctx := context.Background()
	svc := s.newService()
	bucketID := s.bucketFor("Not Mine")

	s.mockRegistry.EXPECT().AddVersion(gomock.Any(), bucketID, s.caller, gomock.Any(), "").
		Return(registrymodels.VersionEntry{}, dErrors.New(dErrors.CodeForbidden, "only the registering author can add versions"))

	_, err := svc.SubmitVersion(ctx, s.caller, bucketID, "v2", "")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}
