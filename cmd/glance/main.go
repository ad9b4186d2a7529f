// main.go - HTTP server application
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glance/internal/config"
	"glance/internal/database"
	"glance/internal/events"
	glancehttp "glance/internal/http"
	"glance/internal/logging"
)

const defaultShutdownTimeout = 30 * time.Second

func main() {
	cfg := config.GetConfig()
	logger := logging.New(cfg)
	slog.SetDefault(logger)

	dbManager := database.NewManager(cfg, logger)
	if err := dbManager.Connect(); err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	log.Println("Running database migrations...")
	if err := dbManager.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed")

	store := events.NewStore(dbManager.GetConnection(), logger, cfg.RetentionCap)
	server := glancehttp.NewServer(cfg, logger, store)

	go func() {
		log.Printf("Listening on :%s", cfg.AppPort)
		if err := server.Listen(); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	waitForShutdownSignal(server, dbManager)
}

// waitForShutdownSignal sets up signal handling and performs graceful shutdown
func waitForShutdownSignal(server *glancehttp.Server, dbManager *database.Manager) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	log.Println("Initiating graceful shutdown...")
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
		os.Exit(1)
	}
	if err := dbManager.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Server shutdown complete")
}
