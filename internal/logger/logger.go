package logger

import (
	"github.com/aleister1102/weeklywrapped/internal/config"
	"github.com/rs/zerolog"
)

// Logger pairs a zerolog instance with the configuration it was built from.
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
}

func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

func (l *Logger) Config() LoggerConfig {
	return l.config
}

// New builds the process logger.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return build(NewLoggerBuilder().WithConfig(cfg))
}

// NewWithRunID builds a logger for a single render run. With run_subdirs
// the log file moves under runs/<runID>/.
func NewWithRunID(cfg config.LogConfig, runID string) (zerolog.Logger, error) {
	return build(NewLoggerBuilder().WithConfig(cfg).WithRunID(runID))
}

func build(b *LoggerBuilder) (zerolog.Logger, error) {
	l, err := b.Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return l.zerolog, nil
}
