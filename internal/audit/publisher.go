package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
//
// By default Emit is synchronous: the caller blocks until the store write
// succeeds or fails. WithAsyncBuffer switches to a buffered channel drained by
// a background goroutine; a full buffer drops the event rather than blocking
// the business operation.
type Publisher struct {
	store  Store
	logger *slog.Logger

	inbox  chan Event
	done   chan struct{}
	closed sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given buffer size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

// WithLogger sets a logger for drop/failure reporting.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		// Full buffer: dropping beats blocking a registry mutation on the
		// audit path. The drop itself is logged for visibility.
		p.logger.Warn("audit buffer full, dropping event",
			"action", event.Action,
			"author", event.Author,
		)
		return nil
	}
}

func (p *Publisher) List(ctx context.Context, author string) ([]Event, error) {
	return p.store.ListByAuthor(ctx, author)
}

// Close drains any buffered events and stops the background goroutine.
func (p *Publisher) Close() {
	if p.inbox == nil {
		return
	}
	p.closed.Do(func() {
		close(p.inbox)
		<-p.done
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("failed to append audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}
