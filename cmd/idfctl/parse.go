package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/rainfall-idf/internal/adapter/filestore"
	"github.com/couchcryptid/rainfall-idf/internal/domain"
)

var (
	unitSystem string
	columnar   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse the rainfall amounts table of a file and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd.Context(), cmd.OutOrStdout(), args[0], unitSystem, columnar)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show the lines the parser sees around the rainfall table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	parseCmd.Flags().StringVarP(&unitSystem, "unit", "u", "metric", "Unit system for intensities (metric or imperial).")
	parseCmd.Flags().BoolVar(&columnar, "columnar", false, "Read durations from a header row.")
}

type parseOutput struct {
	File      string          `json:"file"`
	Strategy  domain.Strategy `json:"strategy"`
	Durations []int           `json:"durations"`
	IDF       domain.IDF      `json:"idf"`
	Units     domain.Units    `json:"units"`
}

func runParse(ctx context.Context, w io.Writer, path, unit string, header bool) error {
	us, err := domain.ParseUnitSystem(unit)
	if err != nil {
		return fmt.Errorf("%w: %q", err, unit)
	}
	text, err := readFile(ctx, path)
	if err != nil {
		return err
	}

	parse := domain.ParseDocument
	if header {
		parse = domain.ParseColumnar
	}
	table, err := parse(text, us)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return writeJSON(w, parseOutput{
		File:      filepath.Base(path),
		Strategy:  table.Strategy,
		Durations: domain.Curves(table).Durations,
		IDF:       table.IDF,
		Units:     table.Units,
	})
}

func runPreview(ctx context.Context, w io.Writer, path string) error {
	text, err := readFile(ctx, path)
	if err != nil {
		return err
	}
	preview, err := domain.Preview(domain.SplitLines(text))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return writeJSON(w, preview)
}

// readFile decodes a file the way the service does.
func readFile(ctx context.Context, path string) (string, error) {
	return filestore.New(filepath.Dir(path), logger).Read(ctx, filepath.Base(path))
}
