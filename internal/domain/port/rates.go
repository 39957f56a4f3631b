package port

import (
	"context"

	"centavo.dev/internal/domain/entity"
)

// RateSource fetches the current exchange rates from the external currency
// service. The contract is fail-soft: on any non-200 response, network
// failure, timeout or parse error the implementation logs the cause and
// returns (nil, nil). Callers treat nil rates as "feature unavailable this
// request", never as a fault to propagate.
type RateSource interface {
	Fetch(ctx context.Context) (entity.RateTable, []entity.CurrencyChoice)
}
