// Package content stores paper body text. The registry never holds content;
// it holds fingerprints, and this store holds the bytes they commit to.
package content

import (
	"context"
	"time"

	"opus/pkg/domain"
)

// Version is one stored body of a paper.
type Version struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Bundle is everything stored for one paper.
type Bundle struct {
	BucketID domain.BucketID `json:"bucket_id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Versions []Version       `json:"versions"`
}

// Latest returns the most recent version, or nil for an empty bundle.
func (b *Bundle) Latest() *Version {
	if len(b.Versions) == 0 {
		return nil
	}
	return &b.Versions[len(b.Versions)-1]
}

// Store persists paper bodies keyed by bucket id.
type Store interface {
	Put(ctx context.Context, bucketID domain.BucketID, title, content, author string, timestamp time.Time) error
	Get(ctx context.Context, bucketID domain.BucketID) (*Bundle, error)
	AppendVersion(ctx context.Context, bucketID domain.BucketID, content string, timestamp time.Time) error
}
