package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
)

// TransactionRepository is append-only.
type TransactionRepository struct {
	mu      sync.Mutex
	records []*domain.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) AppendTransaction(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *tx
	r.records = append(r.records, &copied)
	return nil
}

func (r *TransactionRepository) GetTransactionsByOwnerID(_ context.Context, ownerID string) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Transaction
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

// Len reports the number of stored records across all owners.
func (r *TransactionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
