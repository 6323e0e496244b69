package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wardwatch/internal/aggregate"
	"wardwatch/internal/alerts"
	"wardwatch/internal/console"
	"wardwatch/internal/preflight"
	"wardwatch/internal/rooms"
	"wardwatch/internal/stream"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var roomFlag int
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the live monitoring console",
		Long: "Connects to the alert push channel and prints live alerts as they " +
			"arrive, attributing each to the selected room. Runs until interrupted. " +
			"Send SIGUSR1 to clear the alert log while the session is running.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if !skipPreflight {
				results := preflight.RunAll(cmd.Context(), cfg)
				for _, result := range results {
					kind := statusError
					if result.Passed {
						kind = statusOK
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				if !preflight.Passed(results) {
					return fmt.Errorf("preflight checks failed; fix the issues above or rerun with --skip-preflight")
				}
			}

			registry, err := rooms.NewRegistry(roomDefinitions(cfg))
			if err != nil {
				return fmt.Errorf("build room registry: %w", err)
			}
			agg := aggregate.New(registry, logger)

			session, err := console.New(console.Options{
				Config:   cfg,
				Logger:   logger,
				Registry: registry,
				Agg:      agg,
				OnAlert: func(alert alerts.Alert, room rooms.Room) {
					fmt.Fprintf(out, "%s  (%s)\n", renderAlertLine(alert, colorize), room.Name)
				},
				OnStateChange: func(state stream.State) {
					kind := statusInfo
					switch state {
					case stream.StateConnected:
						kind = statusOK
					case stream.StateError:
						kind = statusError
					case stream.StateDisconnected:
						kind = statusWarn
					}
					fmt.Fprintln(out, renderStatusLine("Connection", kind, string(state), colorize))
				},
			})
			if err != nil {
				return err
			}

			if roomFlag != 0 {
				if err := session.SelectRoom(roomFlag); err != nil {
					return err
				}
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := session.Start(runCtx); err != nil {
				return err
			}
			defer session.Stop()

			// SIGUSR1 clears the alert log without restarting the session.
			clearCh := make(chan os.Signal, 1)
			signal.Notify(clearCh, syscall.SIGUSR1)
			defer signal.Stop(clearCh)
			go func() {
				for range clearCh {
					session.ClearAlerts()
					fmt.Fprintln(out, renderStatusLine("Alerts", statusInfo, "Log cleared", colorize))
				}
			}()

			selected, _ := registry.Get(registry.Selected())
			fmt.Fprintf(out, "Watching %s (%s). Press Ctrl+C to stop.\n", selected.Name, selected.Patient)

			<-runCtx.Done()
			fmt.Fprintln(out)

			_, stats := agg.Snapshot()
			fmt.Fprintf(out, "Session ended: %d alert(s) received.\n", stats.Total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&roomFlag, "room", "r", 0, "Room id to attribute live alerts to (defaults to the first room)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip backend and directory checks before connecting")
	return cmd
}
