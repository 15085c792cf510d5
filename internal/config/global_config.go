package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/aleister1102/weeklywrapped/internal/common/filemanager"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const maxConfigFileSize = 10 * 1024 * 1024

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	AssetsConfig          AssetsConfig          `json:"assets_config,omitempty" yaml:"assets_config,omitempty"`
	HistoryConfig         HistoryConfig         `json:"history_config,omitempty" yaml:"history_config,omitempty"`
	LogConfig             LogConfig             `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	PipelineConfig        PipelineConfig        `json:"pipeline_config,omitempty" yaml:"pipeline_config,omitempty"`
	ReporterConfig        ReporterConfig        `json:"reporter_config,omitempty" yaml:"reporter_config,omitempty"`
	ResourceLimiterConfig ResourceLimiterConfig `json:"resource_limiter_config,omitempty" yaml:"resource_limiter_config,omitempty"`
	ServerConfig          ServerConfig          `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	UploadConfig          UploadConfig          `json:"upload_config,omitempty" yaml:"upload_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		AssetsConfig:          NewDefaultAssetsConfig(),
		HistoryConfig:         NewDefaultHistoryConfig(),
		LogConfig:             NewDefaultLogConfig(),
		PipelineConfig:        NewDefaultPipelineConfig(),
		ReporterConfig:        NewDefaultReporterConfig(),
		ResourceLimiterConfig: NewDefaultResourceLimiterConfig(),
		ServerConfig:          NewDefaultServerConfig(),
		UploadConfig:          NewDefaultUploadConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// A .env file in the working directory is loaded first; environment values
// then override secrets and endpoints from the file.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	_ = godotenv.Load()

	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist")
		}
		applyEnvOverrides(cfg, logger)
		return cfg, nil
	}

	fileManager := filemanager.NewFileManager(logger)
	data, err := fileManager.ReadFile(filePath, filemanager.FileReadOptions{MaxSize: maxConfigFileSize})
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse config content")
	}

	applyEnvOverrides(cfg, logger)
	logger.Debug().Str("path", filePath).Msg("Configuration file loaded")
	return cfg, nil
}

// applyEnvOverrides lets deployment secrets live outside the config file.
func applyEnvOverrides(cfg *GlobalConfig, logger zerolog.Logger) {
	if token := os.Getenv(EnvBlobToken); token != "" {
		cfg.UploadConfig.BlobToken = token
	}
	if base := os.Getenv(EnvAssetBaseURL); base != "" {
		cfg.PipelineConfig.AssetBaseURL = base
		logger.Debug().Str("asset_base_url", base).Msg("Asset base URL overridden by environment")
	}
	if base := os.Getenv(EnvUploadAPIBaseURL); base != "" {
		cfg.UploadConfig.APIBaseURL = base
	}
	if target := os.Getenv(EnvUploadTarget); target != "" {
		cfg.UploadConfig.Target = strings.ToLower(target)
	}
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errorwrapper.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
