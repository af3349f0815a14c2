// Package submission is the front door for new papers and new versions. It
// composes identity derivation, the registry, the plagiarism gate, the
// similarity oracle, and the bulk content store into the submission policy.
package submission

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Registry,Gate,Scorer,ContentStore,AuditPublisher

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"opus/internal/audit"
	gatemodels "opus/internal/gate/models"
	"opus/internal/identity"
	"opus/internal/platform/middleware"
	registrymodels "opus/internal/registry/models"
	registryservice "opus/internal/registry/service"
	"opus/internal/scoring"
	"opus/internal/submission/metrics"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

type Registry interface {
	CheckTitleExists(ctx context.Context, title string) (registryservice.TitleCheck, error)
	RegisterPaper(ctx context.Context, title string, author domain.AuthorAddress, fingerprint domain.Fingerprint, suppliedBucketID domain.BucketID) (*registrymodels.PaperRecord, error)
	AddVersion(ctx context.Context, bucketID domain.BucketID, author domain.AuthorAddress, fingerprint domain.Fingerprint, description string) (registrymodels.VersionEntry, error)
	GetPaper(ctx context.Context, bucketID domain.BucketID) (*registrymodels.PaperRecord, error)
}

type Gate interface {
	RecordCheck(ctx context.Context, author domain.AuthorAddress, similarityPercent float64) (allowed bool, state *gatemodels.ThrottleState, err error)
}

type Scorer interface {
	Score(ctx context.Context, title, content string, author domain.AuthorAddress) (*scoring.Result, error)
}

type ContentStore interface {
	Put(ctx context.Context, bucketID domain.BucketID, title, content, author string, timestamp time.Time) error
	AppendVersion(ctx context.Context, bucketID domain.BucketID, content string, timestamp time.Time) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Policy holds the submission policy flags. The zero value is the published
// default: versions bypass the gate, and a scoring outage fails the
// submission rather than letting it through unchecked.
type Policy struct {
	// GateVersions runs version updates through the same scoring and gate
	// path as new papers.
	GateVersions bool
	// AllowUncheckedOnScoringOutage lets a submission proceed without a
	// similarity verdict when the oracle is down. Every use is audited.
	AllowUncheckedOnScoringOutage bool
}

// Submission outcomes the transport layer tells apart. Comparable with
// errors.Is.
var (
	ErrUseAddVersion  = dErrors.New(dErrors.CodeConflict, "you already registered this title, add a version instead")
	ErrDuplicateTitle = dErrors.New(dErrors.CodeConflict, "paper title already registered")
	ErrAuthorBanned   = dErrors.New(dErrors.CodeForbidden, "submissions from this author are banned")
)

// Result is what a successful submission returns.
type Result struct {
	Paper      *registrymodels.PaperRecord
	Version    *registrymodels.VersionEntry
	Similarity *scoring.Result
	// Unchecked is true when the submission proceeded without a similarity
	// verdict under the outage policy flag.
	Unchecked bool
}

type Service struct {
	registry       Registry
	gate           Gate
	scorer         Scorer
	contents       ContentStore
	policy         Policy
	clock          func() time.Time
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPolicy(policy Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func WithContentStore(contents ContentStore) Option {
	return func(s *Service) {
		s.contents = contents
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(registry Registry, gate Gate, scorer Scorer, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "registry is required")
	}
	if gate == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "gate is required")
	}
	if scorer == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "scorer is required")
	}
	s := &Service{
		registry: registry,
		gate:     gate,
		scorer:   scorer,
		clock:    time.Now,
		logger:   slog.Default(),
		tracer:   otel.Tracer("opus/submission"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitPaper runs the full first-time submission workflow:
// derive identity, check the title, score, gate, register, store content.
// At most one gate check is recorded per attempt, and only when the
// similarity verdict is at or above the strike threshold.
func (s *Service) SubmitPaper(ctx context.Context, caller domain.AuthorAddress, title, content string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "submission.SubmitPaper",
		trace.WithAttributes(attribute.String("author", caller.String())),
	)
	defer span.End()

	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if content == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "content is required")
	}

	bucketID, err := identity.DeriveBucketID(title, caller)
	if err != nil {
		return nil, err
	}
	fingerprint := identity.DeriveFingerprint(content)
	span.SetAttributes(attribute.String("bucket_id", bucketID.String()))

	check, err := s.registry.CheckTitleExists(ctx, title)
	if err != nil {
		return nil, err
	}
	if check.Exists {
		if check.Owner == caller {
			return nil, ErrUseAddVersion
		}
		s.rejectAudit(ctx, caller, bucketID, "duplicate title")
		return nil, ErrDuplicateTitle
	}

	verdict, unchecked, err := s.scoreAndGate(ctx, caller, title, content, bucketID)
	if err != nil {
		return nil, err
	}

	record, err := s.registry.RegisterPaper(ctx, title, caller, fingerprint, bucketID)
	if err != nil {
		return nil, err
	}
	s.incrementAccepted()

	s.storeContent(ctx, bucketID, title, content, caller, record.CreatedAt, false)

	return &Result{Paper: record, Similarity: verdict, Unchecked: unchecked}, nil
}

// SubmitVersion appends a version to a paper the caller owns. Versions skip
// the gate unless the GateVersions policy flag is set.
func (s *Service) SubmitVersion(ctx context.Context, caller domain.AuthorAddress, bucketID domain.BucketID, content, description string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "submission.SubmitVersion",
		trace.WithAttributes(
			attribute.String("author", caller.String()),
			attribute.String("bucket_id", bucketID.String()),
		),
	)
	defer span.End()

	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if content == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "content is required")
	}

	fingerprint := identity.DeriveFingerprint(content)

	var verdict *scoring.Result
	var unchecked bool
	if s.policy.GateVersions {
		record, err := s.registry.GetPaper(ctx, bucketID)
		if err != nil {
			return nil, err
		}
		verdict, unchecked, err = s.scoreAndGate(ctx, caller, record.Title, content, bucketID)
		if err != nil {
			return nil, err
		}
	}

	entry, err := s.registry.AddVersion(ctx, bucketID, caller, fingerprint, description)
	if err != nil {
		return nil, err
	}
	s.incrementAccepted()

	s.storeContent(ctx, bucketID, "", content, caller, entry.Timestamp, true)

	return &Result{Version: &entry, Similarity: verdict, Unchecked: unchecked}, nil
}

// scoreAndGate obtains a verdict and, when it is at or above the strike
// threshold, records exactly one gate check. Clean verdicts never touch gate
// state.
func (s *Service) scoreAndGate(ctx context.Context, caller domain.AuthorAddress, title, content string, bucketID domain.BucketID) (*scoring.Result, bool, error) {
	ctx, span := s.tracer.Start(ctx, "submission.scoreAndGate")
	defer span.End()

	verdict, err := s.scorer.Score(ctx, title, content, caller)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnavailable) && s.policy.AllowUncheckedOnScoringOutage {
			s.logger.WarnContext(ctx, "scoring unavailable, proceeding unchecked under policy",
				"author", caller.String(),
				"bucket_id", bucketID.String(),
				"request_id", middleware.GetRequestID(ctx),
			)
			s.emitAudit(ctx, audit.EventUncheckedSubmission, caller, bucketID, "scoring outage policy")
			s.incrementUnchecked()
			return nil, true, nil
		}
		return nil, false, err
	}
	span.SetAttributes(attribute.Float64("similarity_percent", verdict.SimilarityPercent))

	if verdict.SimilarityPercent < gatemodels.SimilarityThreshold {
		return verdict, false, nil
	}

	allowed, state, err := s.gate.RecordCheck(ctx, caller, verdict.SimilarityPercent)
	if err != nil {
		return nil, false, err
	}
	if !allowed {
		reason := "high similarity strike limit"
		if state != nil && state.IsBanned {
			reason = "author banned"
		}
		s.rejectAudit(ctx, caller, bucketID, reason)
		s.incrementRejected()
		return nil, false, ErrAuthorBanned
	}
	return verdict, false, nil
}

// storeContent writes the body text after the registry commit. The registry
// is the source of truth; a content store failure is logged, not unwound.
func (s *Service) storeContent(ctx context.Context, bucketID domain.BucketID, title, content string, caller domain.AuthorAddress, timestamp time.Time, isVersion bool) {
	if s.contents == nil {
		return
	}
	var err error
	if isVersion {
		err = s.contents.AppendVersion(ctx, bucketID, content, timestamp)
	} else {
		err = s.contents.Put(ctx, bucketID, title, content, caller.String(), timestamp)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "content store write failed",
			"bucket_id", bucketID.String(),
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
}

func (s *Service) rejectAudit(ctx context.Context, caller domain.AuthorAddress, bucketID domain.BucketID, reason string) {
	s.emitAudit(ctx, audit.EventSubmissionRejected, caller, bucketID, reason)
}

func (s *Service) emitAudit(ctx context.Context, action string, caller domain.AuthorAddress, bucketID domain.BucketID, reason string) {
	requestID := middleware.GetRequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, action,
			"author", caller.String(),
			"bucket_id", bucketID.String(),
			"reason", reason,
			"request_id", requestID,
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: s.clock().UTC(),
		Author:    caller.String(),
		Action:    action,
		BucketID:  bucketID.String(),
		Reason:    reason,
		RequestID: requestID,
	})
}

func (s *Service) incrementAccepted() {
	if s.metrics != nil {
		s.metrics.IncrementAccepted()
	}
}

func (s *Service) incrementRejected() {
	if s.metrics != nil {
		s.metrics.IncrementRejected()
	}
}

func (s *Service) incrementUnchecked() {
	if s.metrics != nil {
		s.metrics.IncrementUnchecked()
	}
}
