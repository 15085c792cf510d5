package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aleister1102/weeklywrapped/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and export run history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file.parquet>",
	Short: "Export recorded runs to a Parquet file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("uid", "", "only runs for this user")
		c.Flags().String("week", "", "only runs for this week start")
		c.Flags().Int("limit", 0, "maximum number of runs (0 means all)")
	}
	historyExportCmd.Flags().String("codec", "", "compression codec: zstd, snappy, gzip or none (defaults to history_config)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
}

func openHistory() (*history.Store, error) {
	if !globalCfg.HistoryConfig.Enabled {
		return nil, errors.New("run history is disabled (history_config.enabled)")
	}
	return history.NewStore(globalCfg.HistoryConfig.SQLitePath, appLogger)
}

func historyFilter(cmd *cobra.Command) history.ListFilter {
	uid, _ := cmd.Flags().GetString("uid")
	week, _ := cmd.Flags().GetString("week")
	limit, _ := cmd.Flags().GetInt("limit")
	return history.ListFilter{UID: uid, WeekStart: week, Limit: limit}
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), historyFilter(cmd))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	codec, _ := cmd.Flags().GetString("codec")
	if codec == "" {
		codec = globalCfg.HistoryConfig.CompressionCodec
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.ExportParquet(cmd.Context(), args[0], historyFilter(cmd), codec)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d runs to %s\n", n, args[0])
	return nil
}
