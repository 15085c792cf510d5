package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/aleister1102/weeklywrapped/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string

	globalCfg *config.GlobalConfig
	appLogger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Weekly wrapped report renderer",
	Long: `wrapped renders the images of a weekly wrapped report, uploads them,
rewrites the report's links and produces the final HTML document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap(configPath)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML/JSON config file (searches default locations if empty)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

// bootstrap loads and validates the configuration, then builds the process logger.
func bootstrap(path string) error {
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadGlobalConfig(path, bootLogger)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	zLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}

	globalCfg = cfg
	appLogger = zLogger
	return nil
}
