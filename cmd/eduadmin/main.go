// Command eduadmin is the back-office tool for the education program: it
// serves the JSON API and runs student CSV imports from the command line.
//
//	eduadmin serve    --config=config/local.yaml
//	eduadmin import   --config=config/local.yaml students.csv [--dry-run]
//	eduadmin template [-o student_template.csv]
//	eduadmin reset    --config=config/local.yaml --yes
//
// CONFIG_PATH may be used instead of --config. A .env file in the working
// directory, or the one named by --env-file, is loaded first and overrides
// the process environment.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/eduadmin/internal/config"
	"github.com/aanand-mishra/eduadmin/internal/logging"
	"github.com/aanand-mishra/eduadmin/internal/roster"
	"github.com/aanand-mishra/eduadmin/internal/storage"
	"github.com/aanand-mishra/eduadmin/internal/storage/sqlite"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:               "eduadmin",
	Short:             "Education program back office",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnvFile,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration YAML file (or CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading config (default .env if present)")
	rootCmd.AddCommand(serveCmd, importCmd, templateCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadEnvFile overlays a dotenv file on the environment. The default .env
// is optional; an explicit --env-file must exist.
func loadEnvFile(*cobra.Command, []string) error {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// app bundles what the commands share once config is loaded.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	medium *sqlite.Medium
	store  *storage.Store
	roster *roster.Service
}

func loadApp() (*app, error) {
	path, err := config.ResolvePath(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log := logging.Setup(cfg.Env, cfg.LogLevel)

	medium, err := sqlite.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialise storage: %w", err)
	}
	log.Info("storage initialised",
		slog.String("path", cfg.Storage.Path),
		slog.String("driver", cfg.Storage.Driver))

	store := storage.New(medium, log)
	return &app{
		cfg:    cfg,
		log:    log,
		medium: medium,
		store:  store,
		roster: roster.New(store, log),
	}, nil
}

func (a *app) Close() {
	if err := a.medium.Close(); err != nil {
		a.log.Error("failed to close storage", slog.String("error", err.Error()))
	}
}
