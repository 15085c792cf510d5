package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/weeklywrapped/internal/rslimiter"
	"github.com/aleister1102/weeklywrapped/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the render API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (overrides server_config.listen_addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		globalCfg.ServerConfig.ListenAddr = listen
	}

	a, err := newApp(globalCfg, globalCfg.PipelineConfig.UseUploads, appLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := rslimiter.NewResourceLimiter(globalCfg.ResourceLimiterConfig, appLogger)
	limiter.Start()
	defer limiter.Stop()

	srv := server.New(globalCfg.ServerConfig, globalCfg.PipelineConfig, a.pipeline, limiter, appLogger)
	return srv.Start(ctx)
}
