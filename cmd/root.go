package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/debug"
	"github.com/soocke/cube-scanner-go/store"
)

// LoggerFactory builds the process logger once flags are parsed.
type LoggerFactory func(w io.Writer, level slog.Leveler, format string) *slog.Logger

// Version is the application version.
const Version = "0.1.0"

const debugStatsInterval = 5 * time.Second

var (
	// cfg and logger are shared by all subcommands; set in PersistentPreRunE.
	cfg    *config.Config
	logger *slog.Logger
	// history is opened on demand by openHistory and closed after the command.
	history *store.Store

	newLogger LoggerFactory = defaultLogger

	cfgPath   string
	debugFlag bool
	logFormat string
	serveAddr string
	dbURL     string
)

var rootCmd = &cobra.Command{
	Use:          "cube-scanner",
	Short:        "Scan a Rubik's cube face by face with a camera and solve it",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", cfgPath, err)
		}
		applyRootFlags(cmd, cfg)

		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		// Logs go to stderr so solutions printed on stdout stay pipeable.
		logger = newLogger(os.Stderr, level, cfg.LogFormat)
		slog.SetDefault(logger)
		if cfg.Debug {
			debug.Start(cmd.Context(), debugStatsInterval, logger)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if history != nil {
			// the command context may already be cancelled by Ctrl+C
			history.Close(context.Background())
			history = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI(cmd.Context())
	},
}

// applyRootFlags copies explicitly set persistent flags over file values.
func applyRootFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		c.Debug = debugFlag
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFormat
	}
	if flags.Changed("serve") {
		c.ListenAddr = serveAddr
	}
	if flags.Changed("db") {
		c.DatabaseURL = dbURL
	}
	_ = c.Validate()
}

// openHistory connects to the solve history database if one is configured.
// It returns nil, nil when history is disabled.
func openHistory(ctx context.Context) (*store.Store, error) {
	if history != nil {
		return history, nil
	}
	conn := store.ConnString(cfg.DatabaseURL)
	if conn == "" {
		return nil, nil
	}
	s, err := store.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	history = s
	return s, nil
}

// Execute runs the CLI. factory builds the logger; nil uses a JSON handler.
func Execute(factory LoggerFactory) {
	if factory != nil {
		newLogger = factory
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultLogger(w io.Writer, level slog.Leveler, _ string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "cube-scanner.json", "path to the JSON config file")
	pf.BoolVar(&debugFlag, "debug", false, "debug logging and periodic runtime stats")
	pf.StringVar(&logFormat, "log-format", "json", "log format: json or text")
	pf.StringVar(&serveAddr, "serve", "", "serve the websocket status feed on this address, e.g. :8080")
	pf.StringVar(&dbURL, "db", "", "PostgreSQL connection string for solve history (default: $DATABASE_URL or $POSTGRES_*)")
}
