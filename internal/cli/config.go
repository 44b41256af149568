package cli

import (
	"errors"
	"fmt"
	"os"

	"phonebook-client/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type configView struct {
	Path          string `json:"path"`
	Address       string `json:"address"`
	Timeout       string `json:"timeout"`
	LogFile       string `json:"logFile"`
	LogLevel      string `json:"logLevel"`
	MetricsListen string `json:"metricsListen"`
	Profile       string `json:"profile"`
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file, env and flags applied)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if app.Format == "" || app.Format == "text" {
				b, err := yaml.Marshal(app.cfg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, b)
				return nil
			}
			return writeOut(cmd, app, configView{
				Path:          path,
				Address:       app.cfg.Address,
				Timeout:       app.cfg.Timeout.String(),
				LogFile:       app.cfg.Log.File,
				LogLevel:      app.cfg.Log.Level,
				MetricsListen: app.cfg.Metrics.Listen,
				Profile:       app.cfg.TUI.Profile,
			})
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		// Skips loading the current file so a malformed one can be replaced.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists: %s (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (the old one is kept as .bak)")
	cmd.AddCommand(initCmd)

	return cmd
}

func (app *App) configPath() (string, error) {
	if app.ConfigPath != "" {
		return app.ConfigPath, nil
	}
	return config.Path()
}
