package usecase

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
)

// ConvertCurrencyUseCase applies freshly fetched exchange rates to an
// amount/currency pair. Rates are re-fetched on every call; nothing is
// cached between requests.
type ConvertCurrencyUseCase struct {
	source port.RateSource
}

// NewConvertCurrencyUseCase creates a new ConvertCurrencyUseCase
func NewConvertCurrencyUseCase(source port.RateSource) *ConvertCurrencyUseCase {
	return &ConvertCurrencyUseCase{
		source: source,
	}
}

// Rates fetches the current rate table and display choices. Both are nil
// when the rate service is unavailable.
func (uc *ConvertCurrencyUseCase) Rates(ctx context.Context) (entity.RateTable, []entity.CurrencyChoice) {
	return uc.source.Fetch(ctx)
}

// Execute fetches rates and converts amountText into currencyCode.
func (uc *ConvertCurrencyUseCase) Execute(ctx context.Context, amountText, currencyCode string) entity.Conversion {
	rates, choices := uc.source.Fetch(ctx)
	return Convert(rates, choices, amountText, currencyCode)
}

// Convert is the pure conversion over an already-fetched rate table.
// An unparseable or empty amount counts as absent; absent rates or an
// absent amount yield the empty-state conversion. A currency with no rate
// echoes the amount and currency back with a nil exchanged value.
// Otherwise the exchanged amount is amount x rate rounded to 2 places,
// half away from zero.
func Convert(rates entity.RateTable, choices []entity.CurrencyChoice, amountText, currencyCode string) entity.Conversion {
	var amount *float64
	if amountText != "" {
		if parsed, err := strconv.ParseFloat(amountText, 64); err == nil {
			amount = &parsed
		}
	}

	if rates == nil || amount == nil {
		return entity.EmptyConversion()
	}

	result := entity.Conversion{
		Choices:  choices,
		Amount:   amount,
		Currency: &currencyCode,
	}

	rate, ok := rates[currencyCode]
	if !ok {
		return result
	}

	exchanged := decimal.NewFromFloat(*amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(2).
		InexactFloat64()
	result.Exchanged = &exchanged

	return result
}
