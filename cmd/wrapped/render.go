package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/common/filemanager"
	"github.com/aleister1102/weeklywrapped/internal/logger"
	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/aleister1102/weeklywrapped/internal/pipeline"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const maxReportFileSize = 8 * 1024 * 1024

var renderCmd = &cobra.Command{
	Use:   "render <report.json>",
	Short: "Render one weekly report to HTML",
	Long: `Render the charts and share cards of a weekly report, upload them
(unless --preview is set) and write the final HTML document.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Bool("preview", false, "inline every image and skip uploads")
	renderCmd.Flags().String("svg-dir", "", "also dump an SVG copy of every rendered image under this directory")
	renderCmd.Flags().StringP("output", "o", "", "write the HTML here instead of the reporter output directory")
}

func runRender(cmd *cobra.Command, args []string) error {
	preview, _ := cmd.Flags().GetBool("preview")
	svgDir, _ := cmd.Flags().GetString("svg-dir")
	output, _ := cmd.Flags().GetString("output")

	fm := filemanager.NewFileManager(appLogger)
	raw, err := fm.ReadFile(args[0], filemanager.FileReadOptions{MaxSize: maxReportFileSize})
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	var data models.WeeklyReportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse report %s: %w", args[0], err)
	}
	if err := validator.New().Struct(&data); err != nil {
		return fmt.Errorf("invalid report %s: %w", args[0], err)
	}

	opts := pipeline.OptionsFromConfig(globalCfg.PipelineConfig)
	if preview {
		opts.UseUploads = false
	}
	if svgDir != "" {
		opts.SVGDir = svgDir
	}

	opts.RunID = uuid.NewString()
	runLogger, err := logger.NewWithRunID(globalCfg.LogConfig, opts.RunID)
	if err != nil {
		return fmt.Errorf("could not initialize run logger: %w", err)
	}

	a, err := newApp(globalCfg, opts.UseUploads, runLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if secs := globalCfg.PipelineConfig.RunTimeoutSecs; secs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
		defer cancel()
	}

	result, err := a.pipeline.Run(ctx, data, opts)
	if err != nil {
		return fmt.Errorf("render run failed: %w", err)
	}

	path := output
	if path == "" {
		path, err = a.reporter.WriteReport(result.HTML, result.Data)
		if err != nil {
			return err
		}
	} else {
		writeOpts := filemanager.DefaultFileWriteOptions()
		writeOpts.CreateDirs = true
		if err := fm.WriteFile(path, []byte(result.HTML), writeOpts); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s written to %s\n", result.RunID, path)
	if opts.UseUploads {
		fmt.Fprintf(cmd.OutOrStdout(), "  trend card: %s\n", result.Assets.TrendCardURL)
		fmt.Fprintf(cmd.OutOrStdout(), "  stats card: %s\n", result.Assets.StatsCardURL)
	}
	return nil
}
