package models

import "time"

// Gate policy constants. These mirror the published submission policy and
// never vary per author.
const (
	// InitialChecks is the advisory check allowance granted to every author.
	InitialChecks = 3
	// SimilarityThreshold is the percent score at and above which a check
	// counts as a strike.
	SimilarityThreshold = 30.0
	// MaxStrikes is the strike count at which an author is banned.
	MaxStrikes = 3
)

// ThrottleState tracks one author's standing with the plagiarism gate.
//
// Invariants:
//   - ChecksRemaining starts at InitialChecks, only ever decrements, floor 0
//   - HighSimilarityCount only ever increments, cap MaxStrikes
//   - IsBanned flips to true exactly when HighSimilarityCount reaches
//     MaxStrikes and never flips back
//
// ChecksRemaining is advisory: it reaches 0 without blocking anything. Only
// IsBanned blocks submissions.
type ThrottleState struct {
	Author              string    `json:"author"`
	ChecksRemaining     int       `json:"checks_remaining"`
	HighSimilarityCount int       `json:"high_similarity_count"`
	IsBanned            bool      `json:"is_banned"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewThrottleState returns the state of an author the gate has never seen.
func NewThrottleState(author string, now time.Time) *ThrottleState {
	return &ThrottleState{
		Author:          author,
		ChecksRemaining: InitialChecks,
		UpdatedAt:       now,
	}
}

// Apply runs one check against the state and reports whether the submission
// is allowed to proceed. Banned authors are absorbing: nothing mutates and
// the answer is always no.
func (t *ThrottleState) Apply(similarityPercent float64, now time.Time) (allowed bool) {
	if t.IsBanned {
		return false
	}

	if t.ChecksRemaining > 0 {
		t.ChecksRemaining--
	}
	if similarityPercent >= SimilarityThreshold && t.HighSimilarityCount < MaxStrikes {
		t.HighSimilarityCount++
	}
	t.UpdatedAt = now

	if t.HighSimilarityCount >= MaxStrikes {
		t.IsBanned = true
		return false
	}
	return true
}

// Clone returns a copy so store callers can't mutate shared state.
func (t *ThrottleState) Clone() *ThrottleState {
	cp := *t
	return &cp
}
