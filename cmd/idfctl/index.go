package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/rainfall-idf/internal/adapter/filestore"
	"github.com/couchcryptid/rainfall-idf/internal/stations"
)

var (
	indexDir string
	indexOut string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the station index for a directory and print a summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runIndex(cmd.Context(), cmd.OutOrStdout(), indexDir, indexOut)
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexDir, "dir", "d", dataDir(), "Directory of IDF .txt files.")
	indexCmd.Flags().StringVarP(&indexOut, "out", "o", "", "Write the indexed stations to this JSON file.")
}

type provinceCount struct {
	province string
	count    int
}

func runIndex(ctx context.Context, w io.Writer, dir, out string) error {
	index, err := stations.Build(ctx, filestore.New(dir, logger), logger)
	if err != nil {
		return err
	}
	all := index.All()

	counts := map[string]int{}
	located := 0
	for _, s := range all {
		counts[s.Province]++
		if s.HasCoords() {
			located++
		}
	}
	pc := make([]provinceCount, 0, len(counts))
	for p, c := range counts {
		pc = append(pc, provinceCount{p, c})
	}
	sort.Slice(pc, func(i, j int) bool {
		if pc[i].count != pc[j].count {
			return pc[i].count > pc[j].count
		}
		return pc[i].province < pc[j].province
	})

	fmt.Fprintf(w, "Stations: %d (%d with coordinates)\n", len(all), located)
	fmt.Fprintf(w, "Provinces (%d):", len(pc))
	for _, p := range pc {
		name := p.province
		if name == "" {
			name = "?"
		}
		fmt.Fprintf(w, " %s=%d", name, p.count)
	}
	fmt.Fprintln(w)

	if out == "" {
		return nil
	}
	if err := writeJSONFile(out, all); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(w, "Wrote %s\n", out)
	return nil
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
