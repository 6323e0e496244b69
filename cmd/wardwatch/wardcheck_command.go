package main

import (
	"github.com/spf13/cobra"

	"wardwatch/internal/notifications"
	"wardwatch/internal/services/analysis"
	"wardwatch/internal/wardcheck"
)

func newWardCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ward-check <image1> <image2>",
		Short: "Compare two ward images for missing patients",
		Long: "Submits a reference image and a current image to the analysis " +
			"backend and reports any beds whose patients are absent.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			client, err := analysis.NewClient(analysis.Config{
				BaseURL:     cfg.Backend.BaseURL,
				ComparePath: cfg.Backend.ComparePath,
				Timeout:     cfg.RequestTimeout(),
			})
			if err != nil {
				return err
			}

			runner := wardcheck.NewRunner(client, logger)
			report, err := runner.Run(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderComparison(out, report.Result, shouldColorize(out))

			notifier := notifications.NewService(cfg)
			if err := notifier.NotifyMissingPatients(cmd.Context(), report.Result); err != nil {
				logger.Warn("ward-check notification failed", "error", err)
			}
			return nil
		},
	}
}
