package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"phonebook-client/internal/config"
	"phonebook-client/internal/format"
	"phonebook-client/internal/logging"
	"phonebook-client/internal/metrics"
	"phonebook-client/internal/phonebook"
	"phonebook-client/internal/tui"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath    string
	Addr          string
	Timeout       time.Duration
	Format        string
	PrettyJSON    bool
	Verbose       bool
	LogFile       string
	MetricsListen string

	cfg     config.Config
	logger  *zap.Logger
	client  *phonebook.Client
	metrics *metrics.Collector

	stopMetrics context.CancelFunc
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "phonebook",
		Short:         "Phone book client (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  phonebook

  # Replay the demonstration sequence against a server
  phonebook demo --addr localhost:50051

  # Scriptable commands
  phonebook add --name Anna --surname Lebedeva --number +79847358427
  phonebook find note "C++ senior developer" --format json

  # Direct lookup (shortcut for: phonebook find id <id>)
  phonebook 4
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.teardown()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("PHONEBOOK_CONFIG", ""), "Path to config.yaml (default: ~/.phonebook/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Addr, "addr", "", "Server address host:port (overrides config and PHONEBOOK_ADDR)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 0, "Per-call timeout (default from config, 5s)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PHONEBOOK_FORMAT", "text"), "Output format (text|json|edn)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print json/edn output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Log file (TUI logs, plus a copy of CLI logs)")
	cmd.PersistentFlags().StringVar(&app.MetricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address")

	cmd.AddCommand(newDemoCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newFindCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// Execute runs cmd and reports a returned error on stderr.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// setup resolves configuration (file < env < flags) and builds the shared
// logger, metrics and client.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(app.Addr); v != "" {
		cfg.Address = v
	}
	if app.Timeout > 0 {
		cfg.Timeout = app.Timeout
	}
	if v := strings.TrimSpace(app.LogFile); v != "" {
		cfg.Log.File = v
	}
	if app.Verbose {
		cfg.Log.Level = "debug"
	}
	if v := strings.TrimSpace(app.MetricsListen); v != "" {
		cfg.Metrics.Listen = v
	}
	app.cfg = cfg

	// The TUI owns the terminal, so it only logs to a file.
	if cmd.Root() == cmd {
		app.logger, err = logging.NewFile(cfg.Log.File, cfg.Log.Level)
	} else {
		app.logger, err = logging.NewCLI(cfg.Log.Level, cfg.Log.File)
	}
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	app.metrics = metrics.New(reg)
	if cfg.Metrics.Listen != "" {
		ctx, cancel := context.WithCancel(context.Background())
		app.stopMetrics = cancel
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg); err != nil {
				app.logger.Warn("metrics endpoint stopped", zap.String("listen", cfg.Metrics.Listen), zap.Error(err))
			}
		}()
	}

	app.client = phonebook.New(
		phonebook.WithTimeout(cfg.Timeout),
		phonebook.WithLogger(app.logger),
		phonebook.WithMetrics(app.metrics),
	)
	return nil
}

func (app *App) teardown() {
	if app.stopMetrics != nil {
		app.stopMetrics()
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

func runTUI(app *App) error {
	return tui.Run(tui.Options{
		Address: app.cfg.Address,
		Client:  app.client,
		Logger:  app.logger,
		Profile: app.cfg.TUI.Profile,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
