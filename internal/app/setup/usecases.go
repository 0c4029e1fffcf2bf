package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-wallet-service/internal/config"
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	infrastructure "github.com/LavaJover/shvark-wallet-service/internal/infrastructure/exchange_providers"
	publisher "github.com/LavaJover/shvark-wallet-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase/exchange"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase/settlement"
	"github.com/shopspring/decimal"
)

type UseCases struct {
	ExchangeRateService   usecase.ExchangeRateService
	WalletUsecase         usecase.WalletUsecase
	PoolUsecase           usecase.PoolUsecase
	BankLinkUsecase       usecase.BankLinkUsecase
	LedgerUsecase         usecase.LedgerUsecase
	RecommendationUsecase usecase.RecommendationUsecase
	ExchangeUsecase       exchange.ExchangeUsecase
	SettlementUsecase     settlement.SettlementUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config
	repos := deps.Repositories

	rates, err := initExchangeRateService(deps)
	if err != nil {
		return nil, fmt.Errorf("exchange rate service: %w", err)
	}

	bankLinkUsecase, err := usecase.NewDefaultBankLinkUsecase(repos.BankLinkRepo, repos.WalletRepo)
	if err != nil {
		return nil, fmt.Errorf("bank link usecase: %w", err)
	}

	// Every balance-changing operation for an owner shares one lock set.
	locks := usecase.NewOwnerLocks()
	ledger := usecase.NewDefaultLedgerUsecase(repos.TransactionRepo)

	exchangeUsecase := exchange.NewDefaultExchangeUsecase(
		repos.WalletRepo,
		repos.PoolRepo,
		ledger,
		rates,
		locks,
		exchange.Config{
			AmountScale:       cfg.Settlement.AmountScale,
			CompensateTimeout: cfg.Settlement.CompensateTimeout,
		},
		exchange.WithAuditLogger(deps.AuditLogger),
		exchange.WithEventPublisher(publisher.NewTransactionEventPublisher(deps.Publisher, cfg.KafkaService.Topic)),
		exchange.WithMetrics(deps.Metrics),
	)

	settlementUsecase := settlement.NewDefaultSettlementUsecase(
		repos.WalletRepo,
		repos.BankLinkRepo,
		rates,
		locks,
		settlement.Config{
			HomeCurrency:      cfg.Settlement.HomeCurrency,
			AmountScale:       cfg.Settlement.AmountScale,
			CompensateTimeout: cfg.Settlement.CompensateTimeout,
		},
		deps.AuditLogger,
		deps.Metrics,
	)

	return &UseCases{
		ExchangeRateService:   rates,
		WalletUsecase:         usecase.NewDefaultWalletUsecase(repos.WalletRepo, locks, cfg.Settlement.StarterCurrencies),
		PoolUsecase:           usecase.NewDefaultPoolUsecase(repos.PoolRepo, cfg.Pool.ReserveDecimals(), deps.Metrics),
		BankLinkUsecase:       bankLinkUsecase,
		LedgerUsecase:         ledger,
		RecommendationUsecase: usecase.NewDefaultRecommendationUsecase(rates, moneyChangers(cfg.MoneyChangers)),
		ExchangeUsecase:       exchangeUsecase,
		SettlementUsecase:     settlementUsecase,
	}, nil
}

func initExchangeRateService(deps *Dependencies) (*usecase.DefaultExchangeRateService, error) {
	gw := deps.Config.RateGateway
	if gw.Provider != "freecurrencyapi" {
		return nil, fmt.Errorf("unknown rate provider %q", gw.Provider)
	}
	provider := infrastructure.NewFreeCurrencyProvider(gw.BaseURL, gw.APIKey, gw.Timeout)

	opts := []usecase.RateServiceOption{usecase.WithRateMetrics(deps.Metrics)}
	if deps.RateCache != nil {
		opts = append(opts, usecase.WithSharedRateCache(deps.RateCache))
	}
	return usecase.NewDefaultExchangeRateService(provider, usecase.RateGatewayConfig{
		Timeout:       gw.Timeout,
		MaxRetries:    gw.MaxRetries,
		RetryBackoff:  gw.RetryBackoff,
		RateTTL:       gw.RateTTL,
		RateCacheSize: gw.RateCacheSize,
		CurrencyTTL:   gw.CurrencyTTL,
	}, opts...), nil
}

// moneyChangers falls back to the two default partner desks when none are configured.
func moneyChangers(configured []config.MoneyChanger) []domain.MoneyChanger {
	if len(configured) == 0 {
		return defaultMoneyChangers()
	}
	out := make([]domain.MoneyChanger, 0, len(configured))
	for _, c := range configured {
		out = append(out, domain.MoneyChanger{
			ID:                  c.ID,
			Name:                c.Name,
			Location:            c.Location,
			Rating:              c.Rating,
			MarkupPercent:       decimal.NewFromFloat(c.MarkupPercent),
			OperatingHours:      c.OperatingHours,
			SupportedCurrencies: c.SupportedCurrencies,
		})
	}
	return out
}

func defaultMoneyChangers() []domain.MoneyChanger {
	return []domain.MoneyChanger{
		{
			ID:                  "mc1",
			Name:                "Global Exchange",
			Location:            "Airport Terminal 1",
			Rating:              4.5,
			MarkupPercent:       decimal.RequireFromString("2.5"),
			OperatingHours:      map[string]string{"weekday": "09:00-21:00", "weekend": "10:00-20:00"},
			SupportedCurrencies: []string{"USD", "EUR", "GBP", "JPY", "AUD"},
		},
		{
			ID:                  "mc2",
			Name:                "City Forex",
			Location:            "Downtown",
			Rating:              4.3,
			MarkupPercent:       decimal.RequireFromString("2.0"),
			OperatingHours:      map[string]string{"weekday": "09:00-18:00", "weekend": "10:00-16:00"},
			SupportedCurrencies: []string{"USD", "EUR", "GBP", "SGD", "CHF"},
		},
	}
}
