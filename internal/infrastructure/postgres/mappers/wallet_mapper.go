package mappers

import (
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/models"
)

func ToDomainWallet(model *models.WalletModel) *domain.Wallet {
	balances := make([]domain.Balance, 0, len(model.Balances))
	for _, b := range model.Balances {
		balances = append(balances, domain.Balance{Currency: b.Currency, Amount: b.Amount})
	}
	return &domain.Wallet{
		OwnerID:   model.OwnerID,
		Balances:  balances,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToDomainPool(model *models.PoolModel, balances []models.PoolBalanceModel) *domain.LiquidityPool {
	out := make([]domain.Balance, 0, len(balances))
	for _, b := range balances {
		out = append(out, domain.Balance{Currency: b.Currency, Amount: b.Amount})
	}
	return &domain.LiquidityPool{
		ID:        model.ID,
		Balances:  out,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
