// Package app builds the wj cobra command tree: build, run, test, explain,
// mcp, targets, each sharing the --target/--out/--json persistent flags.
//
// Grounded on the teacher's cmd/morfx/main.go flag set (--lang, --json,
// --verbose, --dry-run) and its handleOutputAndExit dual text/JSON output,
// rebuilt on spf13/cobra + spf13/pflag instead of a bare pflag.FlagSet.
package app

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds the persistent flag values shared by every subcommand.
type Config struct {
	Target      string
	Out         string
	JSON        bool
	Verbose     bool
	SnapshotDSN string
}

// Root builds the wj root command and its full subcommand tree.
func Root() *cobra.Command {
	// Load .env for local development (e.g. WJ_SNAPSHOT_AUTH_TOKEN for a
	// remote libsql snapshot DSN); a missing file is not an error, grounded
	// on the teacher's db/sqlite_integration_test.go "_ = godotenv.Load()".
	_ = godotenv.Load()

	cfg := &Config{}

	root := &cobra.Command{
		Use:           "wj",
		Short:         "Windjammer compiler: lower .wj source to idiomatic target code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.Target, "target", "rust", "code-generation target backend")
	root.PersistentFlags().StringVar(&cfg.Out, "out", "", "output directory (defaults alongside the input file)")
	root.PersistentFlags().BoolVar(&cfg.JSON, "json", false, "emit machine-readable JSON diagnostics instead of text")
	root.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&cfg.SnapshotDSN, "snapshot", "", "warm-start query cache DSN (sqlite file path or libsql:// URL)")

	root.AddCommand(
		newBuildCmd(cfg),
		newRunCmd(cfg),
		newTestCmd(cfg),
		newExplainCmd(cfg),
		newMCPCmd(cfg),
		newTargetsCmd(cfg),
	)
	return root
}

func logger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
