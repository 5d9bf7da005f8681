package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aretw0/sysml/internal/cli"
	"github.com/aretw0/sysml/internal/config"
	"github.com/aretw0/sysml/internal/logging"
	"github.com/spf13/cobra"
)

// app is built before any command that touches storage runs.
var app *cli.App

var rootCmd = &cobra.Command{
	Use:   "sysml",
	Short: "SysML v2 model store and validator",
	Long: `sysml keeps SysML v2 / KerML models in a repository (files, SQLite or Redis)
and checks them against the metamodel's structural rules.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["storage"] != "true" {
			return nil
		}
		dir, _ := cmd.Flags().GetString("dir")
		configPath, _ := cmd.Flags().GetString("config")
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(dir, configPath)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("driver") {
			cfg.Storage.Driver, _ = cmd.Flags().GetString("driver")
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := logging.NewWithWriter(os.Stderr, level, logging.Format(cfg.Log.Format))

		app, err = cli.NewApp(cfg, dir, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		if show, _ := cmd.Flags().GetBool("metrics"); show {
			if err := app.WriteMetrics(cmd.ErrOrStderr()); err != nil {
				return err
			}
		}
		err := app.Close()
		app = nil
		return err
	},
}

// storageCommand marks cmd as needing the configured repository.
func storageCommand(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations["storage"] = "true"
	rootCmd.AddCommand(cmd)
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project directory; relative storage paths resolve against it")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Configuration file")
	rootCmd.PersistentFlags().String("driver", "", "Storage driver override (memory, file, sqlite, redis)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print store metrics to stderr on exit")
}
