package usecase

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

type PoolUsecase interface {
	InitPool(ctx context.Context) (*domain.LiquidityPool, error)
	GetPool(ctx context.Context) (*domain.LiquidityPool, error)
	RefreshPoolMetrics(ctx context.Context) error
}

type DefaultPoolUsecase struct {
	poolRepo domain.PoolRepository
	reserve  map[string]decimal.Decimal
	metrics  *metrics.WalletMetrics
}

// NewDefaultPoolUsecase takes the starting reserve that InitPool seeds.
func NewDefaultPoolUsecase(poolRepo domain.PoolRepository, reserve map[string]decimal.Decimal, m *metrics.WalletMetrics) *DefaultPoolUsecase {
	return &DefaultPoolUsecase{poolRepo: poolRepo, reserve: reserve, metrics: m}
}

func (uc *DefaultPoolUsecase) InitPool(ctx context.Context) (*domain.LiquidityPool, error) {
	reserve := make(map[string]decimal.Decimal, len(uc.reserve))
	for currency, amount := range uc.reserve {
		code := domain.NormalizeCurrency(currency)
		if err := domain.ValidateCurrency(code); err != nil {
			return nil, err
		}
		if amount.IsNegative() {
			return nil, domain.Errorf(domain.ErrValidation, "pool reserve for %s must not be negative", code)
		}
		if err := domain.ValidateScale(amount); err != nil {
			return nil, err
		}
		reserve[code] = reserve[code].Add(amount)
	}

	pool, err := uc.poolRepo.InitPool(ctx, reserve)
	if err != nil {
		return nil, err
	}
	slog.Info("liquidity pool initialized", "currencies", len(pool.Balances))
	uc.observe(pool)
	return pool, nil
}

func (uc *DefaultPoolUsecase) GetPool(ctx context.Context) (*domain.LiquidityPool, error) {
	return uc.poolRepo.GetPool(ctx)
}

// RefreshPoolMetrics publishes the current reserve to the pool balance gauge.
// A missing pool is not an error.
func (uc *DefaultPoolUsecase) RefreshPoolMetrics(ctx context.Context) error {
	pool, err := uc.poolRepo.GetPool(ctx)
	if err != nil {
		if domain.Kind(err) == domain.ErrNotFound {
			return nil
		}
		return err
	}
	uc.observe(pool)
	return nil
}

func (uc *DefaultPoolUsecase) observe(pool *domain.LiquidityPool) {
	for _, b := range pool.Balances {
		uc.metrics.SetPoolBalance(b.Currency, b.Amount)
	}
}
