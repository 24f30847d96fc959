package main

import (
	"context"
	"log"

	"agent-dashboard-be/internal/bootstrap"
	"agent-dashboard-be/internal/config"
	"agent-dashboard-be/internal/server"
	"agent-dashboard-be/internal/tracer"
)

func main() {
	// 0. Tracing (opt-in via OTEL_ENABLED)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load configuration
	cfg := config.Load()

	// 2. Bootstrap dependencies (container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()
	if container.NatsPub != nil {
		defer container.NatsPub.Close()
	}

	// 3. Start background services
	go container.WebSocketHub.Run()
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Printf("Background consumer error: %v", err)
	}

	// 4. Run server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
