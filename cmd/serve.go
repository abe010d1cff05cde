package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reelsmith/internal/app"
	"reelsmith/internal/server"
	"reelsmith/pkg/config"
)

var serveInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server and the periodic pipeline",
	Long: `Serve the render-completion webhook and the manual trigger endpoint,
and run the pipeline at a fixed interval. Each tick processes at most
one book; a full schedule or an empty queue makes the tick a no-op.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().DurationVarP(&serveInterval, "interval", "i", 0, "Interval between pipeline runs (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	service, err := app.BuildService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = service.Store().Close() }()

	interval := serveInterval
	if interval == 0 {
		interval = cfg.Agent.Interval
	}

	srv := server.New(service, cfg)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", cfg.Server.ListenAddr, "public_base_url", cfg.Server.PublicBaseURL)
		errChan <- srv.Listen(cfg.Server.ListenAddr)
	}()

	go runTicker(ctx, service, interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Shutting down...", "signal", sig)
	case err := <-errChan:
		return err
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func runTicker(ctx context.Context, service *app.Service, interval time.Duration) {
	slog.Info("Starting pipeline ticker", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runOnce(ctx, service)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce(ctx, service)
		}
	}
}

func runOnce(ctx context.Context, service *app.Service) {
	result, err := service.Run(ctx)
	if err != nil {
		slog.Error("Pipeline run failed", "error", err)
		return
	}
	if result.Outcome == app.OutcomeScheduled {
		slog.Info("Pipeline run complete", "book", result.BookTitle, "posts", len(result.Scheduled))
	}
}
