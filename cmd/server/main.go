/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ledger engine server.

STARTUP SEQUENCE:
  1. Resolve configuration (defaults, .env, environment, flags)
  2. Create the in-memory engine
  3. Configure HTTP router
  4. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

The engine is purely in-memory; stopping the server discards all state.

SEE ALSO:
  - config.go: Configuration layers
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/ledger-engine/api"
	"github.com/warp/ledger-engine/ledger"
)

func main() {
	cfg := NewConfig()
	if err := cfg.LoadDotEnv(os.Getwd); err != nil {
		log.Fatalf("Failed to read .env: %v", err)
	}
	cfg.LoadEnv(os.Getenv)
	if err := cfg.ParseFlags(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	engine := ledger.New()
	handler := api.NewHandler(engine)
	router := api.NewRouter(handler, cfg.AllowedOrigins())

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Ledger engine listening on http://%s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
