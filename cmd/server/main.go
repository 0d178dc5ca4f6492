//go:build grpcserver

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firewoodbank/internal/config"
	"firewoodbank/internal/db"
	grpcserver "firewoodbank/internal/grpc"
	"firewoodbank/repository"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}()

	repos := grpcserver.Repos{
		Users:     repository.NewUserRepository(d),
		Clients:   repository.NewClientRepository(d),
		Orders:    repository.NewWorkOrderRepository(d),
		Events:    repository.NewDeliveryEventRepository(d),
		Inventory: repository.NewInventoryRepository(d),
		Audits:    repository.NewAuditRepository(d),
	}

	shutdown, err := grpcserver.StartGRPC(cfg, repos)
	if err != nil {
		log.Fatalf("start grpc: %v", err)
	}
	log.Printf("gRPC server listening on %s", cfg.GRPC.Address)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
