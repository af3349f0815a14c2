package audit

import "context"

// Store persists audit events. Implementations must be safe for concurrent
// use; the async publisher appends from a background goroutine.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAuthor(ctx context.Context, author string) ([]Event, error)
}
