package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"web_navigator/infrastructure/config"
	"web_navigator/presentation/terminal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		backend    string
		driverPath string
		headless   bool
	)

	cmd := &cobra.Command{
		Use:          "web_navigator",
		Short:        "Interactive browser and screen automation console",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}
			if cmd.Flags().Changed("driver") {
				cfg.Driver.Path = driverPath
			}
			if cmd.Flags().Changed("headless") {
				cfg.Driver.Headless = headless
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			termInterface, err := terminal.NewTerminalInterface(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer termInterface.Close()

			return termInterface.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&backend, "backend", "selenium", "browser backend: selenium or playwright")
	cmd.Flags().StringVar(&driverPath, "driver", "", "chromedriver executable")
	cmd.Flags().BoolVar(&headless, "headless", false, "run the browser headless")
	return cmd
}
