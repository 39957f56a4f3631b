package port

import (
	"context"

	"centavo.dev/internal/domain/entity"
)

// EventPublisher is the port for transaction notifications. Publishing is
// advisory: a failed publish must not fail the transaction itself.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.TransactionEvent) error
}
