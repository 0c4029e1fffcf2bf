package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service key reported alongside the overall "" status.
const ServiceName = "wallet.WalletService"

// Check probes one backing dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	server *health.Server
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{server: health.NewServer(), checks: checks}
}

// NewGRPCServer builds the gRPC server with the health service registered.
func NewGRPCServer(h *HealthHandler) *grpc.Server {
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, h.server)
	reflection.Register(grpcServer)
	return grpcServer
}

// Probe runs every check once and publishes the combined status.
func (h *HealthHandler) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Warn("health check failed", "dependency", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run probes on every tick until ctx is cancelled.
func (h *HealthHandler) Run(ctx context.Context, interval time.Duration) {
	h.Probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			h.Probe(probeCtx)
			cancel()
		}
	}
}

// Shutdown marks every service NOT_SERVING so balancers drain traffic.
func (h *HealthHandler) Shutdown() {
	h.server.Shutdown()
}
