// Package cli holds the supplifit command tree and the state shared by its
// subcommand packages.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/supplifit/supplifit/pkg/observability"
)

var (
	cfgFile    string
	verbose    bool
	jsonOutput bool
	logger     *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "supplifit",
	Short: "SuppliFit - partner commission and subscription backend",
	Long: `SuppliFit runs the commission policy for partner stores and the
subscription lifecycle of the supplement marketplace.

	Commands work against the configured database. Without DATABASE_URL
	a local SQLite database is used.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := context.WithValue(cmd.Context(), commandContextKey{}, info)
		ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
		cmd.SetContext(ctx)
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "env file to load before the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the CLI logger.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ConfigFile returns the --config flag value.
func ConfigFile() string {
	return cfgFile
}

// PreparseGlobalFlags reads --config and --verbose from args before the
// command tree runs, so the container can be built from the right env file.
// Unknown flags are ignored.
func PreparseGlobalFlags(args []string) (configFile string, isVerbose bool) {
	fs := pflag.NewFlagSet("preparse", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.StringVarP(&configFile, "config", "c", "", "")
	fs.BoolVarP(&isVerbose, "verbose", "v", false, "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)
	return configFile, isVerbose
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides --json.
func SetJSONOutput(v bool) {
	jsonOutput = v
}
