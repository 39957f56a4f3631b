package port

import (
	"context"

	"github.com/shopspring/decimal"

	"centavo.dev/internal/domain/entity"
)

// LedgerRepository is the port for the append-only transaction ledger.
// Implementations must reject entries that fail entity.LedgerEntry.Validate
// at the storage boundary.
type LedgerRepository interface {
	// Append stores a new entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry entity.LedgerEntry) error
	// SumAmount returns the sum of amounts over the owner's entries
	// matching kind and status, zero when no rows match.
	SumAmount(ctx context.Context, owner string, kind entity.Kind, status entity.Status) (decimal.Decimal, error)
	// EntriesByOwner returns the owner's entries, newest first.
	EntriesByOwner(ctx context.Context, owner string) ([]entity.LedgerEntry, error)
}
