package content

import (
	"context"
	"strings"
	"sync"
	"time"

	"opus/internal/scoring"
	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

// InMemoryStore keeps paper bodies in process memory. It also serves as the
// local scorer's corpus.
type InMemoryStore struct {
	mu      sync.RWMutex
	bundles map[domain.BucketID]*Bundle
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bundles: make(map[domain.BucketID]*Bundle)}
}

func (s *InMemoryStore) Put(_ context.Context, bucketID domain.BucketID, title, content, author string, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bundles[bucketID]; exists {
		return dErrors.New(dErrors.CodeConflict, "content already stored for this paper")
	}
	s.bundles[bucketID] = &Bundle{
		BucketID: bucketID,
		Title:    title,
		Author:   author,
		Versions: []Version{{Content: content, Timestamp: timestamp}},
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, bucketID domain.BucketID) (*Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bundle, exists := s.bundles[bucketID]
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "content not found")
	}
	cp := *bundle
	cp.Versions = append([]Version(nil), bundle.Versions...)
	return &cp, nil
}

func (s *InMemoryStore) AppendVersion(_ context.Context, bucketID domain.BucketID, content string, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle, exists := s.bundles[bucketID]
	if !exists {
		return dErrors.New(dErrors.CodeNotFound, "content not found")
	}
	bundle.Versions = append(bundle.Versions, Version{Content: content, Timestamp: timestamp})
	return nil
}

// LatestByTitle finds the newest stored body for a case-insensitive title
// match by a different author. Title matching here follows the similarity
// corpus convention, not the registry's exact-byte rule: near-identical
// titles are exactly what a plagiarism check wants to catch.
func (s *InMemoryStore) LatestByTitle(_ context.Context, title string, excludeAuthor string) (*scoring.ContentMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wantTitle := strings.ToLower(strings.TrimSpace(title))
	wantExclude := strings.ToLower(strings.TrimSpace(excludeAuthor))
	for _, bundle := range s.bundles {
		if strings.ToLower(strings.TrimSpace(bundle.Title)) != wantTitle {
			continue
		}
		if strings.ToLower(strings.TrimSpace(bundle.Author)) == wantExclude {
			continue
		}
		latest := bundle.Latest()
		if latest == nil {
			continue
		}
		return &scoring.ContentMatch{
			Title:     bundle.Title,
			Author:    bundle.Author,
			BucketID:  bundle.BucketID.String(),
			Content:   latest.Content,
			Timestamp: latest.Timestamp,
		}, nil
	}
	return nil, nil
}
