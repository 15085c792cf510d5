package logger

import (
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/rs/zerolog"
)

// LogFormat selects how log lines are encoded.
type LogFormat int

const (
	FormatJSON LogFormat = iota
	FormatConsole
	FormatText
)

func (lf LogFormat) String() string {
	switch lf {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "console"
	}
}

// ParseFormat maps a configured format name to a LogFormat. Unknown names
// fall back to console.
func ParseFormat(name string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

// ParseLevel maps a configured level name to a zerolog level; "" means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.InfoLevel, errorwrapper.WrapError(err, "invalid log level")
	}
	return level, nil
}

// LoggerConfig is the resolved form of config.LogConfig.
type LoggerConfig struct {
	Level         zerolog.Level
	Format        LogFormat
	EnableConsole bool
	EnableFile    bool
	FilePath      string
	MaxSizeMB     int
	MaxBackups    int
	// RunID, with RunSubdirs, moves the log file under runs/<RunID>/.
	RunID      string
	RunSubdirs bool
}

// DefaultLoggerConfig logs info and above to the console only.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:         zerolog.InfoLevel,
		Format:        FormatConsole,
		EnableConsole: true,
		MaxSizeMB:     config.DefaultMaxLogSizeMB,
		MaxBackups:    config.DefaultMaxLogBackups,
	}
}

// resolve converts the application log section. An unparsable level
// yields info together with the parse error.
func resolve(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)
	return LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     positiveOr(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
		MaxBackups:    positiveOr(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
		RunSubdirs:    cfg.RunSubdirs,
	}, err
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
