package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-concierge-be/internal/bootstrap"
	"travel-concierge-be/internal/config"
	"travel-concierge-be/internal/server"
	"travel-concierge-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 3. Tracing
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, "travel-concierge", container.Logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("[WARN] Event consumer not started: %v", err)
	}

	// 5. Run Server until interrupted
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("[WARN] Server shutdown: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("[ERROR] Server stopped: %v", err)
	}
}
