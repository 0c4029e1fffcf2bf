package usecase

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/oklog/ulid/v2"
)

type LedgerUsecase interface {
	Append(ctx context.Context, tx *domain.Transaction) error
	History(ctx context.Context, ownerID string) ([]*domain.Transaction, error)
}

// DefaultLedgerUsecase stamps ids as monotonic ULIDs so storage order
// follows creation order.
type DefaultLedgerUsecase struct {
	txRepo domain.TransactionRepository

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

func NewDefaultLedgerUsecase(txRepo domain.TransactionRepository) *DefaultLedgerUsecase {
	return &DefaultLedgerUsecase{
		txRepo:  txRepo,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Append inserts tx unconditionally, filling ID and CreatedAt when unset.
func (uc *DefaultLedgerUsecase) Append(ctx context.Context, tx *domain.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = uc.now().UTC()
	}
	if tx.ID == "" {
		id, err := uc.newID(tx.CreatedAt)
		if err != nil {
			return domain.Internal("transaction id", err)
		}
		tx.ID = id
	}
	return uc.txRepo.AppendTransaction(ctx, tx)
}

func (uc *DefaultLedgerUsecase) History(ctx context.Context, ownerID string) ([]*domain.Transaction, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	txs, err := uc.txRepo.GetTransactionsByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, domain.ErrNoTransactions
	}
	return txs, nil
}

func (uc *DefaultLedgerUsecase) newID(at time.Time) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(at), uc.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
