package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
)

// GetBalanceUseCase derives an owner's current balance from the ledger
type GetBalanceUseCase struct {
	repository port.LedgerRepository
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase
func NewGetBalanceUseCase(repository port.LedgerRepository) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		repository: repository,
	}
}

// Execute computes the balance as the sum of successful deposits minus the
// sum of successful withdrawals. Failure entries never contribute, and an
// owner with no entries has a balance of zero. Pure read: nothing is
// persisted and repeated calls are safe.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, owner string) (decimal.Decimal, error) {
	deposits, err := uc.repository.SumAmount(ctx, owner, entity.KindDeposit, entity.StatusSuccess)
	if err != nil {
		return decimal.Zero, err
	}

	withdrawals, err := uc.repository.SumAmount(ctx, owner, entity.KindWithdraw, entity.StatusSuccess)
	if err != nil {
		return decimal.Zero, err
	}

	return deposits.Sub(withdrawals), nil
}
