// Command idfctl parses, previews and checks ECCC IDF text files from the
// command line.
package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))

	rootCmd = &cobra.Command{
		Use:           "idfctl",
		Short:         "Inspect rainfall intensity-duration-frequency tables.",
		SilenceUsage: true,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "The env file to read.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (debug, info, warn, error).")

	rootCmd.AddCommand(parseCmd, previewCmd, checkCmd, indexCmd)
}

func initConfig() {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		slog.Info("failed to load env file", "error", err.Error())
	}
	logger = sharedobs.NewLogger(logLevel, "text")
}

// dataDir is the default for --dir flags.
func dataDir() string {
	return sharedcfg.EnvOrDefault("DATA_DIR", "./data")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
