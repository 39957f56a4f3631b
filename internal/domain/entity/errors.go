package entity

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors below wrap one of these so callers can
// classify with errors.Is without matching individual sentinels.
var (
	ErrValidation = errors.New("validation error")
	ErrIntegrity  = errors.New("integrity error")
)

var (
	ErrMalformedAmount = fmt.Errorf("%w: malformed amount", ErrValidation)
	ErrNegativeAmount  = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrAmountPrecision = fmt.Errorf("%w: amount exceeds 2 decimal places", ErrValidation)
	ErrAmountTooLarge  = fmt.Errorf("%w: amount exceeds 10 digits", ErrValidation)
	ErrUnknownKind     = fmt.Errorf("%w: unknown transaction kind", ErrValidation)

	ErrMissingOwner = fmt.Errorf("%w: ledger entry has no owner", ErrIntegrity)
)
