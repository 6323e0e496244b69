package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wardwatch/internal/aggregate"
	"wardwatch/internal/notifications"
	"wardwatch/internal/pipeline"
	"wardwatch/internal/rooms"
	"wardwatch/internal/services/analysis"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var roomFlag int

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Upload a recording and run activity analysis",
		Long: "Uploads the recording to the analysis backend, requests processing, " +
			"and prints the detected alerts with a per-type summary.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			room, err := resolveRoom(cfg, roomFlag)
			if err != nil {
				return err
			}

			client, err := analysis.NewClient(analysis.Config{
				BaseURL:     cfg.Backend.BaseURL,
				UploadPath:  cfg.Backend.UploadPath,
				ProcessPath: cfg.Backend.ProcessPath,
				HealthPath:  cfg.Backend.HealthPath,
				Timeout:     cfg.RequestTimeout(),
			})
			if err != nil {
				return err
			}

			registry, err := rooms.NewRegistry(roomDefinitions(cfg))
			if err != nil {
				return fmt.Errorf("build room registry: %w", err)
			}
			agg := aggregate.New(registry, logger)
			runner := pipeline.NewRunner(client, registry, agg, logger)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			result, err := runner.Run(cmd.Context(), args[0], room.ID, func(state pipeline.State) {
				switch state {
				case pipeline.StateUploading:
					fmt.Fprintln(out, renderStatusLine("Analysis", statusInfo, "Uploading recording", colorize))
				case pipeline.StateProcessing:
					fmt.Fprintln(out, renderStatusLine("Analysis", statusInfo, "Processing", colorize))
				}
			})
			if err != nil {
				notifier := notifications.NewService(cfg)
				if notifyErr := notifier.NotifyError(cmd.Context(), err, "analysis"); notifyErr != nil {
					logger.Warn("error notification failed", "error", notifyErr)
				}
				return err
			}

			fmt.Fprintf(out, "Processed %s for %s (%d of %d frames sampled).\n",
				result.Filename, room.Name, result.ProcessedFrames, result.TotalFrames)

			if len(result.Alerts) == 0 {
				fmt.Fprintln(out, renderStatusLine("Result", statusOK, "No abnormal activity detected", colorize))
			} else {
				fmt.Fprintln(out, renderTable(
					[]string{"Time", "Type", "Severity", "Message"},
					renderAlertRows(result.Alerts),
					alignRight, alignLeft, alignLeft, alignLeft,
				))
				for _, line := range renderSummary(result.Summary) {
					fmt.Fprintln(out, line)
				}
				if result.HighSeverity {
					fmt.Fprintln(out, renderStatusLine("Result", statusError, "High severity activity detected", colorize))
				}
			}

			notifier := notifications.NewService(cfg)
			if err := notifier.NotifyAnalysisComplete(cmd.Context(), result.Filename, result.Summary); err != nil {
				logger.Warn("completion notification failed", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&roomFlag, "room", "r", 1, "Room id to attach the recording to")
	return cmd
}
