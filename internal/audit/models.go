package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	// Author is the canonical ledger address of the author the event concerns.
	Author string
	Action string
	// BucketID is set for events scoped to a single paper.
	BucketID string
	// Reason carries the human-readable cause for deny/ban events.
	Reason string
	// RequestID is the correlation id from the HTTP request context.
	RequestID string
}

// Action names. Every mutation of registry or gate state emits exactly one.
const (
	EventPaperRegistered     = "paper_registered"
	EventVersionAdded        = "version_added"
	EventCheckRecorded       = "check_recorded"
	EventAuthorBanned        = "author_banned"
	EventSubmissionRejected  = "submission_rejected"
	EventUncheckedSubmission = "unchecked_submission"
)
