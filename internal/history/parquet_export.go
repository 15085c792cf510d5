package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/parquet-go/parquet-go"
)

// parquetRunRecord is the export schema. Timestamps are unix milliseconds.
type parquetRunRecord struct {
	RunID         string  `parquet:"run_id"`
	UID           string  `parquet:"uid"`
	WeekStart     string  `parquet:"week_start"`
	Mode          string  `parquet:"mode"`
	UploadTarget  string  `parquet:"upload_target"`
	TrendCardURL  string  `parquet:"trend_card_url"`
	StatsCardURL  string  `parquet:"stats_card_url"`
	HTMLSHA256    string  `parquet:"html_sha256"`
	HTMLBytes     int64   `parquet:"html_bytes"`
	DurationMs    int64   `parquet:"duration_ms"`
	CompletedAtMs int64   `parquet:"completed_at_ms"`
}

func toParquetRecord(rec models.RunRecord) parquetRunRecord {
	return parquetRunRecord{
		RunID:         rec.RunID,
		UID:           rec.UID,
		WeekStart:     rec.WeekStart,
		Mode:          rec.Mode,
		UploadTarget:  rec.UploadTarget,
		TrendCardURL:  rec.TrendCardURL,
		StatsCardURL:  rec.StatsCardURL,
		HTMLSHA256:    rec.HTMLSHA256,
		HTMLBytes:     rec.HTMLBytes,
		DurationMs:    rec.DurationMs,
		CompletedAtMs: rec.CompletedAt.UnixMilli(),
	}
}

// ExportParquet writes every run matching filter to path and returns the row count.
func (s *Store) ExportParquet(ctx context.Context, path string, filter ListFilter, codec string) (int, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[parquetRunRecord](file, compressionOption(codec))
	rows := make([]parquetRunRecord, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toParquetRecord(rec))
	}
	if _, err := writer.Write(rows); err != nil {
		return 0, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to close parquet writer: %w", err)
	}

	s.logger.Info().Str("path", path).Int("rows", len(rows)).Str("codec", codec).Msg("Exported run history")
	return len(rows), nil
}

// ReadParquet loads an export back into run records.
func ReadParquet(path string) ([]models.RunRecord, error) {
	rows, err := parquet.ReadFile[parquetRunRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	out := make([]models.RunRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.RunRecord{
			RunID:        row.RunID,
			UID:          row.UID,
			WeekStart:    row.WeekStart,
			Mode:         row.Mode,
			UploadTarget: row.UploadTarget,
			TrendCardURL: row.TrendCardURL,
			StatsCardURL: row.StatsCardURL,
			HTMLSHA256:   row.HTMLSHA256,
			HTMLBytes:    row.HTMLBytes,
			DurationMs:   row.DurationMs,
			CompletedAt:  unixMilliUTC(row.CompletedAtMs),
		}
		out = append(out, rec)
	}
	return out, nil
}

func compressionOption(codec string) parquet.WriterOption {
	switch strings.ToLower(codec) {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "none", "uncompressed":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}
