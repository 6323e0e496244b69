package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRoomsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List the configured rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			defs := roomDefinitions(cfg)
			rows := make([][]string, 0, len(defs))
			for _, def := range defs {
				rows = append(rows, []string{
					strconv.Itoa(def.ID),
					def.Name,
					def.Patient,
					yesNo(def.Monitoring),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Room", "Patient", "Monitoring"},
				rows,
			))
			return nil
		},
	}
}
