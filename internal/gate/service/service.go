package service

import (
	"context"
	"log/slog"
	"time"

	"opus/internal/audit"
	"opus/internal/gate/metrics"
	"opus/internal/gate/models"
	"opus/internal/platform/middleware"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

type ThrottleStore interface {
	Get(ctx context.Context, author string) (*models.ThrottleState, error)
	RecordCheckAtomic(ctx context.Context, author string, similarityPercent float64, now time.Time) (allowed bool, state *models.ThrottleState, err error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the plagiarism gate. It owns no policy knobs: the constants
// live on the model and the transition lives in the store, so this layer is
// orchestration, audit, and metrics.
//
// There is no reset, decay, or reinstatement path. A ban is permanent.
type Service struct {
	throttles      ThrottleStore
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

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(throttles ThrottleStore, opts ...Option) *Service {
	s := &Service{
		throttles: throttles,
		clock:     time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordCheck applies one similarity check to the author's state and reports
// whether the submission may proceed. Exactly one call per gated submission
// attempt; callers must not retry a denied check.
func (s *Service) RecordCheck(ctx context.Context, author domain.AuthorAddress, similarityPercent float64) (bool, *models.ThrottleState, error) {
	if author.IsZero() {
		return false, nil, dErrors.New(dErrors.CodeValidation, "author address is required")
	}
	if similarityPercent < 0 || similarityPercent > 100 {
		return false, nil, dErrors.New(dErrors.CodeValidation, "similarity percent must be between 0 and 100")
	}

	before, err := s.throttles.Get(ctx, author.String())
	if err != nil {
		return false, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load throttle state")
	}

	allowed, state, err := s.throttles.RecordCheckAtomic(ctx, author.String(), similarityPercent, s.clock().UTC())
	if err != nil {
		return false, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record check")
	}
	s.incrementChecksRecorded()

	beforeStrikes := 0
	wasBanned := false
	if before != nil {
		beforeStrikes = before.HighSimilarityCount
		wasBanned = before.IsBanned
	}

	if state.HighSimilarityCount > beforeStrikes {
		s.incrementStrikes()
		s.logger.InfoContext(ctx, "high similarity strike recorded",
			"author", author.String(),
			"similarity_percent", similarityPercent,
			"strike_count", state.HighSimilarityCount,
			"request_id", middleware.GetRequestID(ctx),
		)
	}

	if state.IsBanned && !wasBanned {
		s.incrementBans()
		s.logAudit(ctx, audit.EventAuthorBanned, author.String(), "third high similarity strike")
	}

	return allowed, state, nil
}

// GetState returns the author's current standing. Authors the gate has never
// seen get the initial state rather than an error.
func (s *Service) GetState(ctx context.Context, author domain.AuthorAddress) (*models.ThrottleState, error) {
	if author.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "author address is required")
	}
	state, err := s.throttles.Get(ctx, author.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load throttle state")
	}
	if state == nil {
		return models.NewThrottleState(author.String(), s.clock().UTC()), nil
	}
	return state, nil
}

func (s *Service) logAudit(ctx context.Context, action, author, reason string) {
	requestID := middleware.GetRequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, action,
			"author", author,
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
		Author:    author,
		Action:    action,
		Reason:    reason,
		RequestID: requestID,
	})
}

func (s *Service) incrementChecksRecorded() {
	if s.metrics != nil {
		s.metrics.IncrementChecksRecorded()
	}
}

func (s *Service) incrementStrikes() {
	if s.metrics != nil {
		s.metrics.IncrementStrikes()
	}
}

func (s *Service) incrementBans() {
	if s.metrics != nil {
		s.metrics.IncrementBans()
	}
}
