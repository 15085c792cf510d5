package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/weeklywrapped/internal/models"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Store persists completed pipeline runs in SQLite.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore opens (creating if needed) the database at path and ensures the schema.
func NewStore(path string, logger zerolog.Logger) (*Store, error) {
	moduleLogger := logger.With().Str("module", "HistoryStore").Logger()
	moduleLogger.Debug().Str("db_path", path).Msg("Initializing run history database")

	if path != ":memory:" {
		dbDir := filepath.Dir(path)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history database directory %s: %w", dbDir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	// modernc sqlite serialises writers; one connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: moduleLogger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS run_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		uid TEXT NOT NULL,
		week_start TEXT NOT NULL,
		mode TEXT NOT NULL,
		upload_target TEXT NOT NULL,
		trend_card_url TEXT,
		stats_card_url TEXT,
		html_sha256 TEXT NOT NULL,
		html_bytes INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_history_report ON run_history (uid, week_start);
	`
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize run history schema")
		return err
	}
	return nil
}

// Record inserts one completed run.
func (s *Store) Record(ctx context.Context, rec models.RunRecord) error {
	query := `INSERT INTO run_history
		(run_id, uid, week_start, mode, upload_target, trend_card_url, stats_card_url, html_sha256, html_bytes, duration_ms, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		rec.RunID, rec.UID, rec.WeekStart, rec.Mode, rec.UploadTarget,
		nullString(rec.TrendCardURL), nullString(rec.StatsCardURL),
		rec.HTMLSHA256, rec.HTMLBytes, rec.DurationMs, rec.CompletedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rec.RunID, err)
	}
	s.logger.Debug().Str("run_id", rec.RunID).Str("uid", rec.UID).Msg("Recorded run")
	return nil
}

// ListFilter narrows List. Zero values match everything; Limit <= 0 means no limit.
type ListFilter struct {
	UID       string
	WeekStart string
	Limit     int
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.RunRecord, error) {
	query := `SELECT run_id, uid, week_start, mode, upload_target, trend_card_url, stats_card_url,
		html_sha256, html_bytes, duration_ms, completed_at FROM run_history WHERE 1=1`
	var args []any
	if filter.UID != "" {
		query += ` AND uid = ?`
		args = append(args, filter.UID)
	}
	if filter.WeekStart != "" {
		query += ` AND week_start = ?`
		args = append(args, filter.WeekStart)
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		var (
			rec         models.RunRecord
			trend       sql.NullString
			stats       sql.NullString
			completedMs int64
		)
		if err := rows.Scan(&rec.RunID, &rec.UID, &rec.WeekStart, &rec.Mode, &rec.UploadTarget,
			&trend, &stats, &rec.HTMLSHA256, &rec.HTMLBytes, &rec.DurationMs, &completedMs); err != nil {
			return nil, fmt.Errorf("failed to scan run history row: %w", err)
		}
		rec.TrendCardURL = trend.String
		rec.StatsCardURL = stats.String
		rec.CompletedAt = unixMilliUTC(completedMs)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run history: %w", err)
	}
	return records, nil
}

func unixMilliUTC(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
