// Package cli implements the caseoracle command tree.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/caseoracle/caseoracle/pkg/config"
	"github.com/caseoracle/caseoracle/pkg/logging"
	"github.com/caseoracle/caseoracle/pkg/store"
)

// Build metadata, injected at link time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Exit codes.
const (
	exitOK     = 0
	exitError  = 1
	exitConfig = 2
	exitData   = 3
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "caseoracle",
	Short: "Test-case oracle for recorded HTTP exchanges",
	Long: `caseoracle answers request records from a corpus of recorded HTTP
exchanges. An exactly matching request gets the recorded response; anything
else gets a report of the nearest cases and how they differ. Captured
response updates accumulate in an append-only update file until committed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "caseoracle.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
}

// Execute runs the command tree and maps the failure to an exit code:
// configuration problems exit 2, case data problems exit 3, anything else 1.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "caseoracle:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var ce *config.ConfigurationError
	if errors.As(err, &ce) {
		return exitConfig
	}
	var de *store.DataError
	if errors.As(err, &de) {
		return exitData
	}
	return exitError
}

// loadConfig loads the configured file and builds the session logger, with
// command-line log flags overriding the file.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	log := logging.New(logging.Config{Level: level, Format: format})
	return cfg, log, nil
}
