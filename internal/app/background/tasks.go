package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
)

const (
	currencyRefreshInterval = 30 * time.Minute
	poolMetricsInterval     = 15 * time.Second
)

type BackgroundTasks struct {
	ExchangeRateService usecase.ExchangeRateService
	PoolUsecase         usecase.PoolUsecase
}

func NewBackgroundTasks(rates usecase.ExchangeRateService, poolUC usecase.PoolUsecase) *BackgroundTasks {
	return &BackgroundTasks{
		ExchangeRateService: rates,
		PoolUsecase:         poolUC,
	}
}

// StartAll runs every task until ctx is cancelled.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startCurrencyRefresh(ctx)
	go bt.startPoolMetricsRefresh(ctx)
}

func (bt *BackgroundTasks) startCurrencyRefresh(ctx context.Context) {
	bt.refreshCurrencies(ctx)

	ticker := time.NewTicker(currencyRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.refreshCurrencies(ctx)
		}
	}
}

func (bt *BackgroundTasks) refreshCurrencies(ctx context.Context) {
	currencies, err := bt.ExchangeRateService.Currencies(ctx)
	if err != nil {
		slog.Warn("currency list refresh failed", "provider", bt.ExchangeRateService.ProviderName(), "error", err)
		return
	}
	slog.Info("currency list refreshed", "provider", bt.ExchangeRateService.ProviderName(), "count", len(currencies))
}

func (bt *BackgroundTasks) startPoolMetricsRefresh(ctx context.Context) {
	ticker := time.NewTicker(poolMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.PoolUsecase.RefreshPoolMetrics(ctx); err != nil {
				slog.Warn("pool metrics refresh failed", "error", err)
			}
		}
	}
}
