package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wardwatch/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend and configuration health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Services", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Backend", statusInfo, cfg.Backend.BaseURL, colorize))
			if wsURL, err := cfg.WebSocketURL(); err == nil {
				fmt.Fprintln(out, renderStatusLine("Push channel", statusInfo, wsURL, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Rooms", statusInfo, fmt.Sprintf("%d configured", len(roomDefinitions(cfg))), colorize))
			notifyDetail := "disabled"
			if cfg.Notifications.NtfyTopic != "" {
				notifyDetail = "enabled"
			}
			fmt.Fprintln(out, renderStatusLine("Notifications", statusInfo, notifyDetail, colorize))

			if !preflight.Passed(results) {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}
