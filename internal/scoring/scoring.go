// Package scoring talks to the similarity oracle that decides how close a
// submission is to already-registered work.
package scoring

import (
	"context"
	"time"

	"opus/pkg/domain"
)

// SimilarPaper is one registered work the oracle found close to the
// submission.
type SimilarPaper struct {
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	SimilarityPercent float64   `json:"similarity_percent"`
	BucketID          string    `json:"bucket_id,omitempty"`
	Timestamp         time.Time `json:"timestamp,omitempty"`
}

// Result is the oracle's verdict on one submission.
type Result struct {
	SimilarityPercent float64        `json:"similarity_percent"`
	IsOriginal        bool           `json:"is_original"`
	SimilarPapers     []SimilarPaper `json:"similar_papers,omitempty"`
}

// Scorer produces similarity verdicts. Implementations must return
// CodeUnavailable on any failure to reach a verdict; a broken oracle never
// passes as "original".
type Scorer interface {
	Score(ctx context.Context, title, content string, author domain.AuthorAddress) (*Result, error)
}
