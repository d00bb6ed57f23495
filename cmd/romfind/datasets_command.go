package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDatasetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the allow-listed dataset identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(cfg.Datasets.Allowed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no datasets configured; add identifiers to datasets.allowed")
				return nil
			}

			rows := make([][]string, 0, len(cfg.Datasets.Allowed))
			for _, id := range cfg.Datasets.Allowed {
				rows = append(rows, []string{id, id + ".db"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "FILE"}, rows))
			return nil
		},
	}
}
