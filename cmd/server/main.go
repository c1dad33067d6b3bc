/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave portal server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and identity configuration
  2. Initialize logger
  3. Build store, workflow, directory service and handler
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  -port              HTTP server port (default: 8080)
  MSAL_CLIENT_ID     Azure AD application id       [required]
  MSAL_CLIENT_SECRET Confidential client secret    [required]
  MSAL_TENANT_ID     Azure AD tenant id            [required]
  MSAL_REDIRECT_URL  OAuth callback (default: local)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit. All portal state is in-memory and is discarded.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/warp/leave-portal/api"
	"github.com/warp/leave-portal/auth"
	"github.com/warp/leave-portal/directory"
	"github.com/warp/leave-portal/graph"
	"github.com/warp/leave-portal/leave"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := auth.FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Wiring: one store per process, passed as a handle.
	provider := auth.NewProvider(cfg, logger)
	sessions := auth.NewSessions(provider)
	graphClient := graph.NewClient(logger)
	store := leave.NewStore()
	workflow := leave.NewWorkflow(store, graphClient, logger)
	dir := directory.NewService(graphClient, logger)

	handler := api.NewHandler(sessions, provider, store, workflow, dir, graphClient, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("🚀 leave portal starting",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", *port)))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
