package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionEvent is the notification emitted after every processed
// transaction, successful or not. Consumers use Message as user-facing
// feedback ("Amount: 50 was withdrawn", "Insufficient balance").
type TransactionEvent struct {
	Owner      string          `json:"owner"`
	Kind       Kind            `json:"kind"`
	Status     Status          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurred_at"`
}
