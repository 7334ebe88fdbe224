package app

import (
	"context"

	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/internal/server"
)

// Serve runs the HTTP and gRPC endpoints until ctx is canceled.
func (a *Application) Serve(ctx context.Context) error {
	return server.Run(ctx, server.Config{
		Addr:     ":" + config.AppPort(),
		GRPCPort: config.GRPCPort(),
		OnShutdown: []func(){
			a.Stream.Stop,
			a.Feed.Stop,
		},
	}, a.Handler(), a.Adapter)
}
