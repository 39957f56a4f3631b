package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
	"centavo.dev/internal/infrastructure/logger"
)

// Postgres error classes for constraint violations.
const (
	pqNotNullViolation = "23502"
	pqCheckViolation   = "23514"
	pqNumericOverflow  = "22003"
)

// PostgresLedger implements the LedgerRepository port on Postgres via lib/pq.
// The schema mirrors the domain invariants: owner NOT NULL, amount
// NUMERIC(10,2) non-negative, append-only (no update or delete statements
// exist in this adapter).
type PostgresLedger struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresLedger creates a new Postgres-backed ledger
func NewPostgresLedger(db *sql.DB, logger logger.Logger) *PostgresLedger {
	return &PostgresLedger{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the ledger table when it does not exist yet.
func (l *PostgresLedger) Migrate(ctx context.Context) error {
	const query = `
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id          UUID PRIMARY KEY,
		owner       TEXT NOT NULL,
		kind        TEXT NOT NULL,
		status      TEXT NOT NULL,
		amount      NUMERIC(10, 2) NOT NULL CHECK (amount >= 0),
		created_at  TIMESTAMPTZ NOT NULL
	)`

	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	return nil
}

// Append validates and inserts a new ledger entry
func (l *PostgresLedger) Append(ctx context.Context, entry entity.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		l.logger.LogError(ctx, "Rejected ledger entry", err,
			"owner", entry.Owner,
			"kind", string(entry.Kind),
			"amount", entry.Amount.String())
		return err
	}

	const query = `
	INSERT INTO ledger_entries (id, owner, kind, status, amount, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := l.db.ExecContext(ctx, query,
		entry.ID, entry.Owner, string(entry.Kind), string(entry.Status),
		entry.Amount.StringFixed(2), entry.CreatedAt)
	if err != nil {
		return l.mapConstraintError(ctx, err, entry)
	}

	return nil
}

// SumAmount aggregates amounts in SQL, zero when no rows match
func (l *PostgresLedger) SumAmount(ctx context.Context, owner string, kind entity.Kind, status entity.Status) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(amount), 0)
	FROM ledger_entries
	WHERE owner = $1 AND kind = $2 AND status = $3`

	var sum string
	if err := l.db.QueryRowContext(ctx, query, owner, string(kind), string(status)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger amounts: %w", err)
	}

	total, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid aggregate value %q: %w", sum, err)
	}
	return total, nil
}

// EntriesByOwner returns the owner's entries, newest first
func (l *PostgresLedger) EntriesByOwner(ctx context.Context, owner string) ([]entity.LedgerEntry, error) {
	const query = `
	SELECT id, owner, kind, status, amount, created_at
	FROM ledger_entries
	WHERE owner = $1
	ORDER BY created_at DESC`

	rows, err := l.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]entity.LedgerEntry, 0)
	for rows.Next() {
		var (
			e      entity.LedgerEntry
			kind   string
			status string
			amount string
		)
		if err := rows.Scan(&e.ID, &e.Owner, &kind, &status, &amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Kind = entity.Kind(kind)
		e.Status = entity.Status(status)
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// mapConstraintError translates Postgres constraint violations into the
// domain's integrity/validation errors so callers classify them uniformly
// across storage adapters.
func (l *PostgresLedger) mapConstraintError(ctx context.Context, err error, entry entity.LedgerEntry) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqNotNullViolation:
			return fmt.Errorf("%w: %v", entity.ErrMissingOwner, err)
		case pqNumericOverflow:
			return fmt.Errorf("%w: %v", entity.ErrAmountTooLarge, err)
		case pqCheckViolation:
			return fmt.Errorf("%w: %v", entity.ErrNegativeAmount, err)
		}
	}

	l.logger.LogError(ctx, "Failed to append ledger entry", err, "owner", entry.Owner)
	return fmt.Errorf("failed to append ledger entry: %w", err)
}

var _ port.LedgerRepository = (*PostgresLedger)(nil)
