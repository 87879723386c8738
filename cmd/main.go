package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/app"
	"github.com/iggydv12/dashcache/internal/cache"
	"github.com/iggydv12/dashcache/internal/config"
)

var (
	cfgFile string
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashcache",
		Short: "dashcache: persisted dashboard state for the rental/taxi admin console",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default: configs/config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cache HTTP API",
		RunE:  runServe,
	}

	debugCmd := &cobra.Command{
		Use:   "debug",
		Short: "Inspect and manage cached state",
	}
	debugCmd.AddCommand(
		&cobra.Command{
			Use:   "session",
			Short: "Show the stored session",
			RunE:  withApp(func(a *app.App, _ []string) error { return a.Inspector.WriteSession(os.Stdout) }),
		},
		&cobra.Command{
			Use:       "dashboard <user|manager|admin>",
			Short:     "Show the cached state of a dashboard",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"user", "manager", "admin"},
			RunE:      withApp(showDashboard),
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show storage usage",
			RunE:  withApp(func(a *app.App, _ []string) error { return a.Inspector.WriteStats(os.Stdout) }),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached entry (session keys are kept)",
			RunE: withApp(func(a *app.App, _ []string) error {
				fmt.Printf("removed %d entries\n", a.Inspector.ClearAllAppState())
				return nil
			}),
		},
		exportCmd(),
		&cobra.Command{
			Use:   "import <file>",
			Short: "Restore state from an export (writes entries unchecked)",
			Args:  cobra.ExactArgs(1),
			RunE:  withApp(importState),
		},
		&cobra.Command{
			Use:   "run",
			Short: "Run every diagnostic",
			RunE:  withApp(func(a *app.App, _ []string) error { return a.Inspector.RunDiagnostics(os.Stdout) }),
		},
	)

	rootCmd.AddCommand(serveCmd, debugCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every cached entry and the session keys as JSON",
		RunE:  withApp(exportState),
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the export to a file instead of stdout")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer logger.Sync()

	a, err := setup(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(context.Background())
}

// withApp builds the components for a one-shot debug command.
func withApp(fn func(a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("logger init: %w", err)
		}
		defer logger.Sync()

		a, err := setup(logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(a, args)
	}
}

func setup(logger *zap.Logger) (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return app.New(cfg, logger)
}

func showDashboard(a *app.App, args []string) error {
	c, err := cache.ParseCategory(args[0])
	if err != nil {
		return err
	}
	return a.Inspector.WriteDashboard(os.Stdout, c)
}

func exportState(a *app.App, _ []string) error {
	data, err := a.Inspector.ExportJSON()
	if err != nil {
		return err
	}
	if outFile == "" {
		_, err = fmt.Println(string(data))
		return err
	}
	return os.WriteFile(outFile, data, 0600)
}

func importState(a *app.App, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	n, err := a.Inspector.Import(data)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d entries\n", n)
	return nil
}
