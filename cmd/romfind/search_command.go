package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"romfind/internal/dataset"
	"romfind/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		datasetID string
		clones    bool
		csvOut    bool
		fromFile  string
	)

	cmd := &cobra.Command{
		Use:   "search [name]...",
		Short: "Look up ROM names for one or more game titles",
		Long: `Look up the canonical ROM names for free-form game titles.

Names are given as arguments, or one per line via --file (use "-" for
stdin). Lookups tolerate punctuation, casing, and word-order differences.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := collectNames(args, fromFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("no search terms given")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			svc := search.New(cfg, logger)
			defer svc.Terminate()

			if err := svc.LoadDatabase(cmd.Context(), datasetID); err != nil {
				return err
			}

			var games []dataset.Game
			if len(names) == 1 {
				games, err = svc.FindOne(cmd.Context(), names[0], clones)
			} else {
				games, err = svc.FindMany(cmd.Context(), names, clones)
			}
			if err != nil {
				return err
			}

			if len(games) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			if csvOut {
				return writeCSV(cmd.OutOrStdout(), games, clones)
			}
			return writeTable(cmd.OutOrStdout(), games, clones)
		},
	}

	cmd.Flags().StringVarP(&datasetID, "dataset", "d", "", "Dataset identifier to search (required)")
	cmd.Flags().BoolVar(&clones, "clones", false, "Include clone variants and their parent titles")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Write results as CSV")
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", `Read names from a file, one per line ("-" for stdin)`)
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

// collectNames merges positional arguments with --file input.
func collectNames(args []string, fromFile string, stdin io.Reader) ([]string, error) {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			names = append(names, arg)
		}
	}
	if fromFile == "" {
		return names, nil
	}

	var data []byte
	var err error
	if fromFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(fromFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

func writeTable(out io.Writer, games []dataset.Game, clones bool) error {
	headers := []string{"ROM", "NAME"}
	if clones {
		headers = append(headers, "CLONE OF")
	}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		row := []string{g.ROM, g.Name}
		if clones {
			row = append(row, g.CloneOf)
		}
		rows = append(rows, row)
	}
	_, err := fmt.Fprintln(out, renderTable(headers, rows))
	return err
}

func writeCSV(out io.Writer, games []dataset.Game, clones bool) error {
	w := csv.NewWriter(out)
	header := []string{"rom", "name"}
	if clones {
		header = append(header, "clone_of")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, g := range games {
		row := []string{g.ROM, g.Name}
		if clones {
			row = append(row, g.CloneOf)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
