package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"reelsmith/internal/app"
	"reelsmith/pkg/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline pass and exit",
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	service, err := app.BuildService(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = service.Store().Close() }()

	result, err := service.Run(cmd.Context())
	if err != nil {
		return err
	}

	slog.Info("Run finished", "outcome", result.Outcome, "message", result.Message)
	for _, post := range result.Scheduled {
		slog.Info("Scheduled", "post", post.ID, "date", post.ScheduledFor, "headline", post.Headline)
	}
	return nil
}
