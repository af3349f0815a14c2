package throttle

import (
	"context"
	"time"

	"opus/internal/gate/models"
)

// Store persists per-author throttle state. RecordCheckAtomic owns the whole
// load-apply-save cycle so concurrent checks cannot lose a strike.
type Store interface {
	// Get returns the author's state, or nil when the gate has never seen
	// them. nil is not an error: an unseen author has full allowance.
	Get(ctx context.Context, author string) (*models.ThrottleState, error)

	// RecordCheckAtomic applies one check to the author's state, creating it
	// on first contact, and returns the post-transition state together with
	// the allow decision.
	RecordCheckAtomic(ctx context.Context, author string, similarityPercent float64, now time.Time) (allowed bool, state *models.ThrottleState, err error)
}
