package memory

import (
	"context"
	"sync"

	"claimbank/internal/events"
)

// Publisher records events in memory, in emission order. It backs
// tests and deployments without a broker.
type Publisher struct {
	mu     sync.Mutex
	events []events.Event
}

// NewPublisher creates an empty in-memory publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *Publisher) Close() error { return nil }

// Events returns a copy of everything emitted so far, in order.
func (p *Publisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// Reset discards recorded events. Test helper.
func (p *Publisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
