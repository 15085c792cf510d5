package config

// HistoryConfig configures the run history database and its Parquet export
type HistoryConfig struct {
	Enabled          bool   `json:"enabled" yaml:"enabled"`
	SQLitePath       string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,oneof=zstd snappy gzip none"`
}

// NewDefaultHistoryConfig creates default history configuration
func NewDefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Enabled:          true,
		SQLitePath:       DefaultHistorySQLitePath,
		CompressionCodec: DefaultHistoryCompressionCodec,
	}
}

// ServerConfig configures the HTTP render service
type ServerConfig struct {
	ListenAddr          string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"omitempty,hostname_port"`
	ShutdownTimeoutSecs int    `json:"shutdown_timeout_secs,omitempty" yaml:"shutdown_timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxBodySize         string `json:"max_body_size,omitempty" yaml:"max_body_size,omitempty"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:          DefaultServerListenAddr,
		ShutdownTimeoutSecs: DefaultServerShutdownTimeoutSecs,
		MaxBodySize:         DefaultServerMaxBodyBytes,
	}
}

// ResourceLimiterConfig bounds memory and goroutines before the service accepts renders
type ResourceLimiterConfig struct {
	MaxMemoryMB        int64   `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"omitempty,min=1"`
	MaxGoroutines      int     `json:"max_goroutines,omitempty" yaml:"max_goroutines,omitempty" validate:"omitempty,min=1"`
	CheckIntervalSecs  int     `json:"check_interval_secs,omitempty" yaml:"check_interval_secs,omitempty" validate:"omitempty,min=1"`
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// NewDefaultResourceLimiterConfig creates default resource limiter configuration
func NewDefaultResourceLimiterConfig() ResourceLimiterConfig {
	return ResourceLimiterConfig{
		MaxMemoryMB:        DefaultLimiterMaxMemoryMB,
		MaxGoroutines:      DefaultLimiterMaxGoroutines,
		CheckIntervalSecs:  DefaultLimiterCheckIntervalSecs,
		SystemMemThreshold: DefaultLimiterSystemMemThreshold,
	}
}
