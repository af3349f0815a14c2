package service

import (
	"context"
	"log/slog"
	"time"

	"opus/internal/audit"
	"opus/internal/identity"
	"opus/internal/platform/middleware"
	"opus/internal/registry/metrics"
	"opus/internal/registry/models"
	"opus/internal/registry/store/titlecache"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

type PaperStore interface {
	Create(ctx context.Context, record *models.PaperRecord) error
	FindByBucketID(ctx context.Context, bucketID domain.BucketID) (*models.PaperRecord, error)
	FindByTitle(ctx context.Context, title string) (*models.PaperRecord, error)
	AppendVersion(ctx context.Context, bucketID domain.BucketID, fingerprint domain.Fingerprint, description string, now time.Time) (models.VersionEntry, error)
	ListByAuthor(ctx context.Context, author domain.AuthorAddress) ([]*models.PaperRecord, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TitleCheck is the answer to "does this title exist, and whose is it".
type TitleCheck struct {
	Exists   bool
	BucketID domain.BucketID
	Owner    domain.AuthorAddress
}

// Service owns the authoritative paper records. It enforces global title
// uniqueness and ownership; plagiarism policy lives one layer up in the
// submission workflow.
type Service struct {
	papers         PaperStore
	cache          *titlecache.Cache
	clock          func() time.Time
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
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

func WithTitleCache(cache *titlecache.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(papers PaperStore, opts ...Option) *Service {
	s := &Service{
		papers: papers,
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckTitleExists resolves a title to its owner without touching any other
// state. The cache only ever answers positively; a miss always consults the
// store, so a stale "no such title" is impossible.
func (s *Service) CheckTitleExists(ctx context.Context, title string) (TitleCheck, error) {
	if title == "" {
		return TitleCheck{}, dErrors.New(dErrors.CodeValidation, "title is required")
	}

	if bucketID, ok := s.cache.Lookup(ctx, title); ok {
		if record, err := s.papers.FindByBucketID(ctx, bucketID); err == nil {
			s.incrementCacheHits()
			return TitleCheck{Exists: true, BucketID: record.BucketID, Owner: record.Author}, nil
		}
	}
	s.incrementCacheMisses()

	record, err := s.papers.FindByTitle(ctx, title)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return TitleCheck{Exists: false}, nil
		}
		return TitleCheck{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check title")
	}

	s.cache.Store(ctx, title, record.BucketID)
	return TitleCheck{Exists: true, BucketID: record.BucketID, Owner: record.Author}, nil
}

// RegisterPaper creates the record for a first-time registration. The bucket
// id is re-derived from title and author and must match the supplied one;
// callers cannot smuggle in an id that does not belong to this title and
// author. A zero supplied id means "derive for me".
func (s *Service) RegisterPaper(ctx context.Context, title string, author domain.AuthorAddress, fingerprint domain.Fingerprint, suppliedBucketID domain.BucketID) (*models.PaperRecord, error) {
	bucketID, err := identity.DeriveBucketID(title, author)
	if err != nil {
		return nil, err
	}
	if !suppliedBucketID.IsZero() && suppliedBucketID != bucketID {
		return nil, dErrors.New(dErrors.CodeValidation, "bucket id does not match title and author")
	}

	record, err := models.NewPaperRecord(bucketID, title, author, fingerprint, s.clock().UTC())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.papers.Create(ctx, record); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "paper title already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register paper")
	}

	s.cache.Store(ctx, title, bucketID)
	s.logAudit(ctx, audit.EventPaperRegistered, author.String(), bucketID.String(), "")
	s.incrementPapersRegistered()
	return record, nil
}

// AddVersion appends a new version to an existing paper owned by author.
func (s *Service) AddVersion(ctx context.Context, bucketID domain.BucketID, author domain.AuthorAddress, fingerprint domain.Fingerprint, description string) (models.VersionEntry, error) {
	record, err := s.papers.FindByBucketID(ctx, bucketID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return models.VersionEntry{}, dErrors.New(dErrors.CodeNotFound, "paper not found")
		}
		return models.VersionEntry{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load paper")
	}

	// Author never changes after registration, so the ownership check stays
	// valid even though the append happens in a separate store call.
	if !record.IsOwnedBy(author) {
		return models.VersionEntry{}, dErrors.New(dErrors.CodeForbidden, "only the registering author can add versions")
	}

	entry, err := s.papers.AppendVersion(ctx, bucketID, fingerprint, description, s.clock().UTC())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return models.VersionEntry{}, dErrors.New(dErrors.CodeNotFound, "paper not found")
		}
		return models.VersionEntry{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append version")
	}

	s.logAudit(ctx, audit.EventVersionAdded, author.String(), bucketID.String(), "")
	s.incrementVersionsAdded()
	return entry, nil
}

// GetPaper returns the full record including its version chain.
func (s *Service) GetPaper(ctx context.Context, bucketID domain.BucketID) (*models.PaperRecord, error) {
	record, err := s.papers.FindByBucketID(ctx, bucketID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "paper not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load paper")
	}
	return record, nil
}

// GetAuthorPapers lists the author's records in registration order.
func (s *Service) GetAuthorPapers(ctx context.Context, author domain.AuthorAddress) ([]*models.PaperRecord, error) {
	records, err := s.papers.ListByAuthor(ctx, author)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list papers")
	}
	return records, nil
}

func (s *Service) logAudit(ctx context.Context, action, author, bucketID, reason string) {
	requestID := middleware.GetRequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, action,
			"author", author,
			"bucket_id", bucketID,
			"request_id", requestID,
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: s.clock().UTC(),
		Author:    author,
		Action:    action,
		BucketID:  bucketID,
		Reason:    reason,
		RequestID: requestID,
	})
}

func (s *Service) incrementPapersRegistered() {
	if s.metrics != nil {
		s.metrics.IncrementPapersRegistered()
	}
}

func (s *Service) incrementVersionsAdded() {
	if s.metrics != nil {
		s.metrics.IncrementVersionsAdded()
	}
}

func (s *Service) incrementCacheHits() {
	if s.metrics != nil {
		s.metrics.IncrementTitleCacheHits()
	}
}

func (s *Service) incrementCacheMisses() {
	if s.metrics != nil {
		s.metrics.IncrementTitleCacheMisses()
	}
}
