package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a balance operation.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// Status records whether the attempted operation was applied.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// MaxAmount is the storage bound for entry amounts: 10 digits total,
// 2 of them decimal places.
var MaxAmount = decimal.RequireFromString("99999999.99")

// LedgerEntry is one immutable record of an attempted balance operation.
// Entries are append-only; a failed withdrawal is still recorded with the
// attempted amount so the history shows the rejected attempt.
type LedgerEntry struct {
	ID        string          `json:"id"`
	Owner     string          `json:"owner"`
	Kind      Kind            `json:"kind"`
	Status    Status          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Validate enforces the storage-boundary invariants: an owner is required
// and the amount must be a non-negative value within the storage bound.
func (e LedgerEntry) Validate() error {
	if e.Owner == "" {
		return ErrMissingOwner
	}
	return validateAmount(e.Amount)
}

// ParseKind maps the wire value of an operation kind onto Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdraw:
		return KindWithdraw, nil
	default:
		return "", ErrUnknownKind
	}
}

// ParseAmount parses a requested amount and checks it against the storage
// bounds before anything is written. Zero is accepted; direction is carried
// by the entry kind, never by a signed amount.
func ParseAmount(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, ErrMalformedAmount
	}
	if err := validateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func validateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegativeAmount
	}
	if d.Exponent() < -2 {
		return ErrAmountPrecision
	}
	if d.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}
