package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
	"centavo.dev/internal/infrastructure/logger"
)

// InsufficientBalanceMessage is the notification text for a rejected withdrawal.
const InsufficientBalanceMessage = "Insufficient balance"

// TransactionResult is what the processor hands back to the caller: the
// projected balance after the just-appended entry, the recorded status, and
// the user-facing message. The balance is an in-memory projection, not a
// re-read from storage.
type TransactionResult struct {
	Balance decimal.Decimal
	Status  entity.Status
	Message string
}

// ProcessTransactionUseCase orchestrates a deposit or withdrawal: read the
// current balance, decide the outcome, append exactly one ledger entry, and
// publish a notification event. The read-decide-append sequence runs under a
// per-owner mutex so two concurrent withdrawals cannot both read the same
// pre-transaction balance and jointly overdraw.
type ProcessTransactionUseCase struct {
	balance    *GetBalanceUseCase
	repository port.LedgerRepository
	publisher  port.EventPublisher
	logger     logger.Logger

	ownerMu map[string]*sync.Mutex
	mapMu   sync.Mutex
}

// NewProcessTransactionUseCase creates a new ProcessTransactionUseCase
func NewProcessTransactionUseCase(
	balance *GetBalanceUseCase,
	repository port.LedgerRepository,
	publisher port.EventPublisher,
	logger logger.Logger,
) *ProcessTransactionUseCase {
	return &ProcessTransactionUseCase{
		balance:    balance,
		repository: repository,
		publisher:  publisher,
		logger:     logger,
		ownerMu:    make(map[string]*sync.Mutex),
	}
}

func (uc *ProcessTransactionUseCase) ownerLock(owner string) *sync.Mutex {
	uc.mapMu.Lock()
	defer uc.mapMu.Unlock()

	if _, exists := uc.ownerMu[owner]; !exists {
		uc.ownerMu[owner] = &sync.Mutex{}
	}
	return uc.ownerMu[owner]
}

// Execute processes one transaction request. Malformed kind or amount fails
// with a validation error before anything is written. Deposits always
// succeed; a withdrawal exceeding the balance is recorded as a failure entry
// carrying the attempted amount, with the balance unchanged. Exactly one
// entry is appended per invocation regardless of outcome.
func (uc *ProcessTransactionUseCase) Execute(ctx context.Context, owner, kindText, amountText string) (*TransactionResult, error) {
	kind, err := entity.ParseKind(kindText)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, kindText)
	}

	amount, err := entity.ParseAmount(amountText)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, amountText)
	}

	mu := uc.ownerLock(owner)
	mu.Lock()
	defer mu.Unlock()

	balance, err := uc.balance.Execute(ctx, owner)
	if err != nil {
		return nil, err
	}

	status := entity.StatusSuccess
	var message string

	switch kind {
	case entity.KindWithdraw:
		if balance.GreaterThanOrEqual(amount) {
			balance = balance.Sub(amount)
			message = fmt.Sprintf("Amount: %s was withdrawn", amount.String())
		} else {
			status = entity.StatusFailure
			message = InsufficientBalanceMessage
		}
	case entity.KindDeposit:
		balance = balance.Add(amount)
		message = fmt.Sprintf("Amount: %s was deposited", amount.String())
	}

	entry := entity.LedgerEntry{
		ID:        uuid.New().String(),
		Owner:     owner,
		Kind:      kind,
		Status:    status,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repository.Append(ctx, entry); err != nil {
		return nil, err
	}

	event := entity.TransactionEvent{
		Owner:      owner,
		Kind:       kind,
		Status:     status,
		Amount:     amount,
		Message:    message,
		OccurredAt: entry.CreatedAt,
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		// Notifications are advisory, the recorded entry stands.
		uc.logger.LogWarning(ctx, "Failed to publish transaction event", "owner", owner, "error", err.Error())
	}

	return &TransactionResult{
		Balance: balance,
		Status:  status,
		Message: message,
	}, nil
}
