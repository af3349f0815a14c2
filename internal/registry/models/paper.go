package models

import (
	"time"

	"opus/pkg/domain"
	dErrors "opus/pkg/domain-errors"
)

// PaperRecord is the aggregate root for one registered paper.
//
// Invariants:
//   - Title and Author are set once at registration and never change
//   - VersionCount == len(Versions) at all times
//   - Versions is append-only; sequence numbers are 1-based, strictly
//     increasing, gapless
//   - CurrentFingerprint always equals the fingerprint of the last version
//   - Records are never deleted; there is no delete operation
//
// Title uniqueness is global across all authors and enforced by the store,
// not here: the record cannot see its siblings. Titles are compared as exact
// bytes, no case folding or whitespace normalization; "On Growth" and
// "on growth" are two different papers.
type PaperRecord struct {
	BucketID           domain.BucketID      `json:"bucket_id"`
	Title              string               `json:"title"`
	Author             domain.AuthorAddress `json:"author"`
	CurrentFingerprint domain.Fingerprint   `json:"current_fingerprint"`
	CreatedAt          time.Time            `json:"created_at"`
	VersionCount       int                  `json:"version_count"`
	Versions           []VersionEntry       `json:"versions"`
}

// VersionEntry is one link of a paper's append-only version chain.
type VersionEntry struct {
	Fingerprint    domain.Fingerprint `json:"fingerprint"`
	Description    string             `json:"description"`
	Timestamp      time.Time          `json:"timestamp"`
	SequenceNumber int                `json:"sequence_number"`
}

// NewPaperRecord creates a record for a first-time registration, seeding the
// version chain with sequence number 1.
func NewPaperRecord(bucketID domain.BucketID, title string, author domain.AuthorAddress, fingerprint domain.Fingerprint, now time.Time) (*PaperRecord, error) {
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "paper title cannot be empty")
	}
	if bucketID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "bucket id cannot be zero")
	}
	if author.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "author address cannot be zero")
	}
	return &PaperRecord{
		BucketID:           bucketID,
		Title:              title,
		Author:             author,
		CurrentFingerprint: fingerprint,
		CreatedAt:          now,
		VersionCount:       1,
		Versions: []VersionEntry{{
			Fingerprint:    fingerprint,
			Description:    "",
			Timestamp:      now,
			SequenceNumber: 1,
		}},
	}, nil
}

// IsOwnedBy reports whether addr is the registering author. Ownership never
// transfers.
func (p *PaperRecord) IsOwnedBy(addr domain.AuthorAddress) bool {
	return p.Author == addr
}

// AppendVersion appends the next link of the version chain and returns the
// new entry. Identical fingerprints are accepted: two identical calls produce
// two entries, dedupe is the caller's concern.
func (p *PaperRecord) AppendVersion(fingerprint domain.Fingerprint, description string, now time.Time) VersionEntry {
	entry := VersionEntry{
		Fingerprint:    fingerprint,
		Description:    description,
		Timestamp:      now,
		SequenceNumber: p.VersionCount + 1,
	}
	p.Versions = append(p.Versions, entry)
	p.VersionCount++
	p.CurrentFingerprint = fingerprint
	return entry
}

// Clone returns a deep copy so store callers can't mutate shared state.
func (p *PaperRecord) Clone() *PaperRecord {
	cp := *p
	cp.Versions = append([]VersionEntry(nil), p.Versions...)
	return &cp
}
