package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"spirit/internal/log"
	"spirit/internal/repl"
	"spirit/internal/store"
	"spirit/internal/util"
)

const historyFileName = ".spirit_history"

var (
	configPath  string
	logLevel    string
	logFile     string
	traceEval   bool
	storeDriver string
	storeDSN    string
	maxDepth    int
	noPrelude   bool
	historyFile string
)

// app holds what the persistent pre-run sets up for every command.
var app struct {
	config    util.Configuration
	logCloser io.Closer
	store     *store.Store
}

var rootCmd = &cobra.Command{
	Use:   "spirit",
	Short: "A tiny expression language with a persistent REPL",
	Long: `spirit evaluates a prefix expression language of lets, defs,
single-parameter functions, application, conditionals and native calls.

Without a subcommand it starts the interactive REPL.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRepl,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive REPL (the default command)",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "TOML configuration file")
	flags.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flags.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	flags.BoolVar(&traceEval, "trace", false, "Print every environment operation and reduction to stderr")
	flags.StringVar(&storeDriver, "store-driver", "", "Persist definitions and history: sqlite3, mysql or postgres")
	flags.StringVar(&storeDSN, "store-dsn", "", "Data source name for the store driver")
	flags.IntVar(&maxDepth, "max-depth", 10000, "Maximum evaluation nesting depth")
	flags.BoolVar(&noPrelude, "no-prelude", false, "Do not define the library functions at startup")
	flags.StringVar(&historyFile, "history-file", "", "REPL line history file (default ~/"+historyFileName+")")
}

// setup builds the configuration from defaults, the config file and finally
// the flags the user actually set.
func setup(cmd *cobra.Command, args []string) error {
	teardown()

	cfg := util.DefaultConfiguration()
	cfg.Version, cfg.BuildDate, cfg.Commit = Version, BuildDate, Commit

	if configPath != "" {
		if err := util.LoadConfigFile(configPath, &cfg); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("trace") {
		cfg.Trace = traceEval
	}
	if flags.Changed("store-driver") {
		cfg.Store.Driver = storeDriver
	}
	if flags.Changed("store-dsn") {
		cfg.Store.DSN = storeDSN
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("no-prelude") {
		cfg.NoPrelude = noPrelude
	}
	if flags.Changed("history-file") {
		cfg.HistoryFile = historyFile
	}

	closer, err := log.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	app.logCloser = closer
	app.config = cfg

	if cfg.Store.Enabled() {
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store driver %s needs a data source name", cfg.Store.Driver)
		}
		st, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return err
		}
		app.store = st
	}

	slog.Debug("configured",
		slog.String("version", cfg.Version),
		slog.String("store", cfg.Store.Driver),
		slog.Int("max_depth", cfg.MaxDepth))
	return nil
}

// execute runs the command line and releases the store and log file however the
// command ended. cobra skips post-run hooks when RunE fails.
func execute(ctx context.Context) error {
	defer teardown()
	return rootCmd.ExecuteContext(ctx)
}

func teardown() {
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			slog.Warn("failed to close store", slog.Any("error", err))
		}
		app.store = nil
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}

// newSession builds a bootstrapped session writing to out.
func newSession(cmd *cobra.Command, cfg util.Configuration, out io.Writer) (*repl.Session, error) {
	opts := []repl.Option{
		repl.WithOutput(out),
		repl.WithTraceOutput(cmd.ErrOrStderr()),
		repl.WithLogger(slog.Default()),
	}
	if app.store != nil {
		opts = append(opts, repl.WithStore(app.store))
	}
	session := repl.NewSession(cfg, opts...)
	if err := session.Bootstrap(cmd.Context()); err != nil {
		return nil, err
	}
	return session, nil
}

func runRepl(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd, app.config, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	prompt := app.config.Prompt
	if prompt == "" {
		prompt = repl.PROMPT
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !isTerminal(f) {
		repl.Start(cmd.Context(), in, cmd.OutOrStdout(), session, prompt)
		return nil
	}

	histPath := app.config.HistoryFile
	if histPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, historyFileName)
		}
	}
	return repl.StartInteractive(cmd.Context(), session, prompt, histPath)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
