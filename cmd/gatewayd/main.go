package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"inferd/internal/lifecycle"
)

var configPath string

func main() {
	root := buildRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gatewayd",
		Short:         "Bounded-pool inference gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to the JSON configuration document")

	root.AddCommand(serveCmd(), versionCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway until terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := lifecycle.New()
			if _, err := mgr.Init(configPath); err != nil {
				return fmt.Errorf("init: %w", err)
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return mgr.Shutdown(ctx)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("gatewayd (dev build)")
			return nil
		},
	}
}
