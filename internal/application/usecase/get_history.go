package usecase

import (
	"context"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
)

// GetHistoryUseCase lists an owner's transaction history
type GetHistoryUseCase struct {
	repository port.LedgerRepository
}

// NewGetHistoryUseCase creates a new GetHistoryUseCase
func NewGetHistoryUseCase(repository port.LedgerRepository) *GetHistoryUseCase {
	return &GetHistoryUseCase{
		repository: repository,
	}
}

// Execute returns the owner's ledger entries, newest first.
func (uc *GetHistoryUseCase) Execute(ctx context.Context, owner string) ([]entity.LedgerEntry, error) {
	return uc.repository.EntriesByOwner(ctx, owner)
}
