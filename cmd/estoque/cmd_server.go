package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/estoque/pkg/app"
	"github.com/shashiranjanraj/estoque/pkg/logger"
)

// estoque serve: start the HTTP and gRPC servers.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server (and gRPC health on GRPC_PORT)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.Close(closeCtx); err != nil {
				logger.Error("shutdown", "error", err)
			}
		}()

		return a.Serve(ctx)
	},
}

// estoque route:list: print every named route.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.PrintRoutes(cmd.OutOrStdout())
	},
}
