//go:build grpcserver

package grpcserver

import (
	"context"
	"net"

	adminv1 "firewoodbank/api/admin/v1"
	authv1 "firewoodbank/api/auth/v1"
	opsv1 "firewoodbank/api/ops/v1"
	"firewoodbank/internal/auth"
	"firewoodbank/internal/config"
	"firewoodbank/repository"

	"google.golang.org/grpc"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"
	loginMethod       = "/firewoodbank.auth.v1.AuthService/Login"
)

// Repos bundles the repositories the servers depend on.
type Repos struct {
	Users     *repository.UserRepository
	Clients   *repository.ClientRepository
	Orders    *repository.WorkOrderRepository
	Events    *repository.DeliveryEventRepository
	Inventory *repository.InventoryRepository
	Audits    *repository.AuditRepository
}

// StartGRPC starts the gRPC server on the configured address and returns a
// shutdown function. Login and health checks bypass the auth interceptor;
// every other method requires a valid session token.
func StartGRPC(cfg *config.Config, r Repos) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(
		auth.NewUnaryAuthInterceptor(cfg.Auth.JWTSecret, healthCheckMethod, loginMethod)))

	authv1.RegisterAuthServiceServer(srv, &AuthServer{Users: r.Users, JWTSecret: cfg.Auth.JWTSecret})
	opsv1.RegisterOpsServiceServer(srv, &OpsServer{Repos: r})
	adminv1.RegisterAdminServiceServer(srv, &AdminServer{Repos: r, ReportsDir: cfg.Reports.Dir})

	go func() { _ = srv.Serve(lis) }()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
