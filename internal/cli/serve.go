package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/api"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/auth"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/codegen"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/complexity"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/config"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/dashboard"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/explain"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/gateway"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/guardrails"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/logging"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/payment"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/platform"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/store"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/viz"
	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/ws"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the platform HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

// homePath resolves a config path against the platform home directory.
// Absolute paths pass through unchanged.
func homePath(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.HomeDir, path)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger := logging.Logger()

	if err := os.MkdirAll(cfg.HomeDir, 0o755); err != nil {
		return fmt.Errorf("create home dir: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gw := gateway.New(logger)
	guard := guardrails.NewManager()
	plat := platform.New(gw, guard, logger)
	hub := ws.NewHub(logger)
	plat.SetWebSocketStats(func() any { return hub.Stats() })
	plat.SetBroadcaster(hub.Broadcast)

	st, err := store.Open(homePath(cfg, cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	audioDir := homePath(cfg, cfg.Explain.AudioCacheDir)
	audioAgent, err := explain.NewAudioAgent(gw, audioDir, logger)
	if err != nil {
		return fmt.Errorf("init audio agent: %w", err)
	}

	payments := payment.NewClient(cfg.Payment.KeyID, cfg.Payment.KeySecret)
	if !payments.Configured() {
		logger.Warn("razorpay keys not configured, payment endpoints disabled")
	}

	server := api.NewServer(api.Options{
		Logger:         logger,
		Platform:       plat,
		Generator:      codegen.NewGenerator(gw),
		Analyzer:       complexity.NewAnalyzer(gw),
		Visualizer:     viz.NewGenerator(gw, logger),
		TextAgent:      explain.NewTextAgent(gw),
		AudioAgent:     audioAgent,
		Dashboard:      dashboard.New(),
		Hub:            hub,
		Auth:           auth.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
		Store:          st,
		Payments:       payments,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AudioDir:       audioDir,
		RequestTimeout: cfg.Gateway.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"providers", gw.AvailableProviders(),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
