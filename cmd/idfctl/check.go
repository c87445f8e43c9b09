package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/rainfall-idf/internal/adapter/filestore"
	"github.com/couchcryptid/rainfall-idf/internal/domain"
)

var checkDir string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse every file in a directory and report which ones fail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		failed, err := runCheck(cmd.Context(), cmd.OutOrStdout(), checkDir)
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d file(s) failed", failed)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkDir, "dir", "d", dataDir(), "Directory of IDF .txt files.")
}

// fileCheck tracks pass/fail for one file.
type fileCheck struct {
	name     string
	strategy domain.Strategy
	cells    int
	errors   []string
}

func (c *fileCheck) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *fileCheck) passed() bool { return len(c.errors) == 0 }

// runCheck parses every file in dir, writes a report and returns the number
// of files that failed.
func runCheck(ctx context.Context, w io.Writer, dir string) (int, error) {
	store := filestore.New(dir, logger)
	names, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("no .txt files in %s", dir)
	}

	checks := make([]*fileCheck, 0, len(names))
	for _, name := range names {
		checks = append(checks, checkFile(ctx, store, name))
	}

	fmt.Fprintf(w, "=== IDF table check: %s ===\n\n", dir)
	failed := 0
	for _, c := range checks {
		status := "\033[32mPASS\033[0m"
		if !c.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(c.errors))
			failed++
		}
		fmt.Fprintf(w, "  %-60s %-20s %3d cells  %s\n", c.name, c.strategy, c.cells, status)
	}

	for _, c := range checks {
		if c.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", c.name)
		for i, e := range c.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	fmt.Fprintf(w, "\n%d files, %d passed, %d failed\n", len(checks), len(checks)-failed, failed)
	return failed, nil
}

func checkFile(ctx context.Context, store *filestore.Store, name string) *fileCheck {
	c := &fileCheck{name: name}
	text, err := store.Read(ctx, name)
	if err != nil {
		c.errorf("read: %v", err)
		return c
	}

	table, err := domain.ParseDocument(text, domain.Metric)
	var perr *domain.ParseError
	switch {
	case errors.As(err, &perr):
		c.errorf("no cells parsed; first rows:\n      %s", strings.Join(perr.Preview, "\n      "))
		return c
	case err != nil:
		c.errorf("%v", err)
		return c
	}

	c.strategy = table.Strategy
	c.cells = table.IDF.DepthsMM.Cells()
	if !domain.HasSubDailyDurations(domain.SplitLines(text)) {
		c.errorf("no sub-daily durations; file would be left out of the station index")
	}
	for _, rp := range domain.ReturnPeriods {
		if len(table.IDF.DepthsMM[rp.Label()]) == 0 {
			c.errorf("return period %s has no cells", rp.Label())
		}
	}
	return c
}
