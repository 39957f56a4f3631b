package events

import (
	"context"
	"sync"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
	"centavo.dev/internal/infrastructure/logger"
)

// MemoryPublisher implements the EventPublisher port in-process. It is the
// default when no broker is configured and doubles as a probe in tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []entity.TransactionEvent
	logger logger.Logger
}

// NewMemoryPublisher creates a new in-process publisher
func NewMemoryPublisher(logger logger.Logger) *MemoryPublisher {
	return &MemoryPublisher{
		events: make([]entity.TransactionEvent, 0),
		logger: logger,
	}
}

// Publish records the event and logs it
func (p *MemoryPublisher) Publish(ctx context.Context, event entity.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	p.logger.LogInfo(ctx, "Transaction event",
		"owner", event.Owner,
		"kind", string(event.Kind),
		"status", string(event.Status),
		"message", event.Message)

	return nil
}

// Events returns a copy of all published events
func (p *MemoryPublisher) Events() []entity.TransactionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]entity.TransactionEvent, len(p.events))
	copy(copied, p.events)
	return copied
}

var _ port.EventPublisher = (*MemoryPublisher)(nil)
