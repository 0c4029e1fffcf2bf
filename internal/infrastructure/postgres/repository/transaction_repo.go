package repository

import (
	"context"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMTransaction(tx)).Error; err != nil {
		return storageErr("append transaction", err)
	}
	return nil
}

// GetTransactionsByOwnerID orders by created_at then id; ULIDs sort by creation time.
func (r *DefaultTransactionRepository) GetTransactionsByOwnerID(ctx context.Context, ownerID string) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&txModels).Error
	if err != nil {
		return nil, storageErr("transaction history", err)
	}

	out := make([]*domain.Transaction, 0, len(txModels))
	for i := range txModels {
		out = append(out, mappers.ToDomainTransaction(&txModels[i]))
	}
	return out, nil
}
