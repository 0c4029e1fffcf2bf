package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/app/background"
	"github.com/LavaJover/shvark-wallet-service/internal/app/setup"
	"github.com/LavaJover/shvark-wallet-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-wallet-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-wallet-service/internal/delivery/http/router"
	"github.com/spf13/cobra"
)

const (
	healthProbeInterval = 10 * time.Second
	shutdownTimeout     = 15 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		return err
	}

	// Background workers
	background.NewBackgroundTasks(ucs.ExchangeRateService, ucs.PoolUsecase).StartAll(ctx)

	health := grpcapi.NewHealthHandler(healthChecks(deps))
	go health.Run(ctx, healthProbeInterval)

	grpcServer := grpcapi.NewGRPCServer(health)
	grpcAddr := fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	httpServer := &http.Server{
		Addr: fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router.SetupRoutes(router.Handlers{
			Wallet: handlers.NewWalletHandler(
				ucs.WalletUsecase,
				ucs.BankLinkUsecase,
				ucs.LedgerUsecase,
				ucs.SettlementUsecase,
			),
			Exchange: handlers.NewExchangeHandler(ucs.ExchangeUsecase, ucs.RecommendationUsecase),
			Pool:     handlers.NewPoolHandler(ucs.PoolUsecase),
		}, deps.Registry),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("gRPC server started", "addr", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr, "storage", cfg.WalletDB.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err = <-errCh:
		slog.Error("server failed", "error", err)
	}

	health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Error("http shutdown failed", "error", shutdownErr)
	}
	grpcServer.GracefulStop()
	return err
}

func healthChecks(deps *setup.Dependencies) map[string]grpcapi.Check {
	checks := make(map[string]grpcapi.Check)
	if deps.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if deps.RateCache != nil {
		checks["redis"] = deps.RateCache.Ping
	}
	return checks
}
