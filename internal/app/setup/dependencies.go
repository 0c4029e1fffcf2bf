package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/config"
	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	publisher "github.com/LavaJover/shvark-wallet-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres/repository"
	rediscache "github.com/LavaJover/shvark-wallet-service/internal/infrastructure/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.WalletConfig
	DB           *gorm.DB // nil with the memory driver
	Registry     *prometheus.Registry
	Metrics      *metrics.WalletMetrics
	Repositories *Repositories
	AuditLogger  domain.AuditLogger
	Publisher    domain.PublisherPort
	RateCache    *rediscache.RateCache // nil unless rate_gateway.redis.enabled

	closers []func() error
}

type Repositories struct {
	WalletRepo      domain.WalletRepository
	PoolRepo        domain.PoolRepository
	BankLinkRepo    domain.BankLinkRepository
	TransactionRepo domain.TransactionRepository
}

func InitializeDependencies(cfg *config.WalletConfig) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewWalletMetrics(deps.Registry)

	switch cfg.WalletDB.Driver {
	case "memory":
		deps.Repositories = &Repositories{
			WalletRepo:      memory.NewWalletRepository(),
			PoolRepo:        memory.NewPoolRepository(),
			BankLinkRepo:    memory.NewBankLinkRepository(),
			TransactionRepo: memory.NewTransactionRepository(),
		}
		deps.AuditLogger = logger.NewSlogAuditLogger(slog.Default())
	default:
		db, err := postgres.InitDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		deps.DB = db
		deps.Repositories = &Repositories{
			WalletRepo:      repository.NewDefaultWalletRepository(db),
			PoolRepo:        repository.NewDefaultPoolRepository(db),
			BankLinkRepo:    repository.NewDefaultBankLinkRepository(db),
			TransactionRepo: repository.NewDefaultTransactionRepository(db),
		}
		deps.AuditLogger = logger.NewPGAuditLogger(db)
		if sqlDB, err := db.DB(); err == nil {
			deps.closers = append(deps.closers, sqlDB.Close)
		}
	}

	deps.Publisher = initPublisher(deps, cfg)

	rateCache, err := initRateCache(cfg)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("rate cache: %w", err)
	}
	if rateCache != nil {
		deps.RateCache = rateCache
		deps.closers = append(deps.closers, rateCache.Close)
	}

	return deps, nil
}

func initPublisher(deps *Dependencies, cfg *config.WalletConfig) domain.PublisherPort {
	if !cfg.KafkaService.Enabled {
		return publisher.NoopPublisher{}
	}
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	deps.closers = append(deps.closers, pub.Close)
	slog.Info("kafka publisher enabled", "brokers", brokers, "topic", cfg.KafkaService.Topic)
	return pub
}

func initRateCache(cfg *config.WalletConfig) (*rediscache.RateCache, error) {
	rc := cfg.RateGateway.Redis
	if !rc.Enabled {
		return nil, nil
	}
	cache := rediscache.NewRateCache(rediscache.NewClient(rc.Addr, rc.Password, rc.DB), cfg.RateGateway.RateTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		_ = cache.Close()
		return nil, err
	}
	slog.Info("redis rate cache enabled", "addr", rc.Addr)
	return cache, nil
}

// Close releases connections in reverse order of acquisition.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Warn("failed to close dependency", "error", err)
		}
	}
	d.closers = nil
}
