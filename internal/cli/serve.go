package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gp-deepseek-translate/internal/config"
	"gp-deepseek-translate/internal/handlers"
	"gp-deepseek-translate/internal/httpserver"
	"gp-deepseek-translate/internal/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP translation service",
		Long: `Run the HTTP translation service.

Routes:
  POST /v1/translate         {"locale","text"}
  POST /v1/translate/batch   {"locale","strings"}
  POST /v1/bulk              {"locale","translation_set_id","rows"}
  GET  /v1/locales
  GET  /healthz
  GET  /metrics

The config file is watched; DeepSeek and user settings take effect without
a restart. Send X-User-ID to translate with a user's own settings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides server.port and PORT)")
	return cmd
}

func (a *app) serve(ctx context.Context, port string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// ----- Logger -----
	logger := a.log()
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	// ----- Config -----
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if port == "" {
		port = cfg.Server.Port
	}

	logger.Info("loaded config",
		zap.String("path", a.configPath()),
		zap.String("port", port),
		zap.String("model", cfg.DeepSeek.Model),
		zap.Bool("api_key_set", cfg.DeepSeek.APIKey != ""),
		zap.Int("users", len(cfg.Users)),
		zap.String("base_url", cfg.Batch.BaseURL),
	)

	// ----- DeepSeek client -----
	factory, holder, release, err := a.newFactory(cfg)
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := os.Stat(a.configPath()); err == nil {
		if err := config.Watch(ctx, a.configPath(), holder, logger.Named("config")); err != nil {
			logger.Warn("config watch disabled", zap.Error(err))
		}
	}

	// ----- Router + middleware -----
	r := httpserver.NewRouter(logger, handlers.NewTranslateHandler(factory))

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      httpserver.RequestTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting server", zap.String("addr", srv.Addr))

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ----- Graceful shutdown -----
	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
