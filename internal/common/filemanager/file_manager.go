package filemanager

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileManager provides file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
	writer *FileWriter
}

// FileReadOptions controls ReadFile.
type FileReadOptions struct {
	// MaxSize caps the number of bytes read; 0 disables the cap.
	MaxSize int64
}

// DefaultFileReadOptions returns options with no size cap.
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{}
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	componentLogger := logger.With().Str("component", "FileManager").Logger()

	return &FileManager{
		logger: componentLogger,
		writer: NewFileWriter(componentLogger),
	}
}

// ReadFile reads a whole file, honouring opts.MaxSize.
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			fm.logger.Error().Err(cerr).Str("path", path).Msg("Failed to close file.")
		}
	}()

	var reader io.Reader = file
	if opts.MaxSize > 0 {
		info, statErr := file.Stat()
		if statErr == nil && info.Size() > opts.MaxSize {
			return nil, errorwrapper.NewValidationError("path", path, fmt.Sprintf("file size %d exceeds limit %d", info.Size(), opts.MaxSize))
		}
		reader = io.LimitReader(file, opts.MaxSize)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("failed to read file content: %s", path))
	}
	return content, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errorwrapper.NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return errorwrapper.WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// WriteFile writes data to a file with the given options
func (fm *FileManager) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if opts.CreateDirs {
		dir := filepath.Dir(path)
		if err := fm.EnsureDirectory(dir, 0755); err != nil {
			return errorwrapper.WrapError(err, "failed to create parent directories for: "+path)
		}
	}

	return fm.writer.WriteFile(path, data, opts)
}
