package paper

import (
	"context"
	"sync"
	"time"

	"opus/internal/registry/models"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

// InMemoryStore keeps papers in process memory. Used in tests and for
// single-node deployments without Postgres.
type InMemoryStore struct {
	mu      sync.RWMutex
	papers  map[domain.BucketID]*models.PaperRecord
	byTitle map[string]domain.BucketID
	// byAuthor preserves registration order per author, which map iteration
	// would not.
	byAuthor map[domain.AuthorAddress][]domain.BucketID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		papers:   make(map[domain.BucketID]*models.PaperRecord),
		byTitle:  make(map[string]domain.BucketID),
		byAuthor: make(map[domain.AuthorAddress][]domain.BucketID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.PaperRecord) error {
	if record == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "paper record is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byTitle[record.Title]; exists {
		return dErrors.New(dErrors.CodeConflict, "paper title already registered")
	}
	if _, exists := s.papers[record.BucketID]; exists {
		return dErrors.New(dErrors.CodeConflict, "bucket id already registered")
	}

	s.papers[record.BucketID] = record.Clone()
	s.byTitle[record.Title] = record.BucketID
	s.byAuthor[record.Author] = append(s.byAuthor[record.Author], record.BucketID)
	return nil
}

func (s *InMemoryStore) FindByBucketID(_ context.Context, bucketID domain.BucketID) (*models.PaperRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.papers[bucketID]
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "paper not found")
	}
	return record.Clone(), nil
}

func (s *InMemoryStore) FindByTitle(_ context.Context, title string) (*models.PaperRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucketID, exists := s.byTitle[title]
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "paper not found")
	}
	return s.papers[bucketID].Clone(), nil
}

func (s *InMemoryStore) AppendVersion(_ context.Context, bucketID domain.BucketID, fingerprint domain.Fingerprint, description string, now time.Time) (models.VersionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.papers[bucketID]
	if !exists {
		return models.VersionEntry{}, dErrors.New(dErrors.CodeNotFound, "paper not found")
	}
	return record.AppendVersion(fingerprint, description, now), nil
}

func (s *InMemoryStore) ListByAuthor(_ context.Context, author domain.AuthorAddress) ([]*models.PaperRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byAuthor[author]
	records := make([]*models.PaperRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.papers[id].Clone())
	}
	return records, nil
}
