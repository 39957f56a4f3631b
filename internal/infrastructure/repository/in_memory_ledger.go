package repository

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
	"centavo.dev/internal/infrastructure/logger"
)

// InMemoryLedger implements the LedgerRepository port with an append-only
// slice. Entries are validated at the boundary exactly like the database
// store, so both adapters reject the same invalid entries.
type InMemoryLedger struct {
	mu      sync.RWMutex
	entries []entity.LedgerEntry
	logger  logger.Logger
}

// NewInMemoryLedger creates a new in-memory ledger
func NewInMemoryLedger(logger logger.Logger) port.LedgerRepository {
	return &InMemoryLedger{
		entries: make([]entity.LedgerEntry, 0),
		logger:  logger,
	}
}

// Append validates and stores a new ledger entry
func (l *InMemoryLedger) Append(ctx context.Context, entry entity.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		l.logger.LogError(ctx, "Rejected ledger entry", err,
			"owner", entry.Owner,
			"kind", string(entry.Kind),
			"amount", entry.Amount.String())
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)

	l.logger.LogInfo(ctx, "Ledger entry appended",
		"owner", entry.Owner,
		"kind", string(entry.Kind),
		"status", string(entry.Status),
		"amount", entry.Amount.String())

	return nil
}

// SumAmount sums the amounts of the owner's entries matching kind and status
func (l *InMemoryLedger) SumAmount(ctx context.Context, owner string, kind entity.Kind, status entity.Status) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := decimal.Zero
	for _, e := range l.entries {
		if e.Owner == owner && e.Kind == kind && e.Status == status {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// EntriesByOwner returns a copy of the owner's entries, newest first.
// Entries are stamped at creation and never mutated, so reverse insertion
// order is descending timestamp order.
func (l *InMemoryLedger) EntriesByOwner(ctx context.Context, owner string) ([]entity.LedgerEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]entity.LedgerEntry, 0)
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Owner == owner {
			result = append(result, l.entries[i])
		}
	}

	return result, nil
}
