package paper

import (
	"context"
	"time"

	"opus/internal/registry/models"
	"opus/pkg/domain"
)

// Store persists paper records. Stores are pure I/O; uniqueness of titles and
// bucket ids is the only rule they enforce, because only the store can see
// all records at once. Everything else (ownership, gating, scoring) belongs
// in the services.
type Store interface {
	// Create inserts a brand-new record. It fails with CodeConflict when the
	// title or the bucket id is already taken by any author.
	Create(ctx context.Context, record *models.PaperRecord) error

	// FindByBucketID returns the record or CodeNotFound.
	FindByBucketID(ctx context.Context, bucketID domain.BucketID) (*models.PaperRecord, error)

	// FindByTitle resolves an exact-byte title match or CodeNotFound.
	FindByTitle(ctx context.Context, title string) (*models.PaperRecord, error)

	// AppendVersion atomically appends the next link of the record's version
	// chain and advances its current fingerprint. The store assigns the
	// sequence number so concurrent appends stay gapless. CodeNotFound when
	// no record exists for bucketID.
	AppendVersion(ctx context.Context, bucketID domain.BucketID, fingerprint domain.Fingerprint, description string, now time.Time) (models.VersionEntry, error)

	// ListByAuthor returns the author's records in registration order. An
	// author with no papers gets an empty slice, never an error.
	ListByAuthor(ctx context.Context, author domain.AuthorAddress) ([]*models.PaperRecord, error)
}
