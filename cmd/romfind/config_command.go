package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"romfind/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and scaffold configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an annotated sample config to the default location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration path and key settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config: %s\n", ctx.cfgPath)
			fmt.Fprintf(out, "data dir: %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "dataset base url: %s\n", cfg.Datasets.BaseURL)
			fmt.Fprintf(out, "datasets: %d allow-listed\n", len(cfg.Datasets.Allowed))
			return nil
		},
	})

	return cmd
}
