package filemanager

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aleister1102/weeklywrapped/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// FileWriteOptions controls WriteFile.
type FileWriteOptions struct {
	Permissions fs.FileMode
	CreateDirs  bool
	// Atomic writes to a temporary sibling and renames it into place.
	Atomic bool
}

// DefaultFileWriteOptions returns 0644, parent creation and atomic replace.
func DefaultFileWriteOptions() FileWriteOptions {
	return FileWriteOptions{
		Permissions: 0644,
		CreateDirs:  true,
		Atomic:      true,
	}
}

// FileWriter handles file writing operations
type FileWriter struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter(logger zerolog.Logger) *FileWriter {
	return &FileWriter{
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// WriteFile writes data to a file with the given options
func (fw *FileWriter) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	perm := opts.Permissions
	if perm == 0 {
		perm = 0644
	}

	var err error
	if opts.Atomic {
		err = fw.writeAtomic(path, data, perm)
	} else {
		err = os.WriteFile(path, data, perm)
	}
	if err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("failed to write file: %s", path))
	}

	fw.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}

func (fw *FileWriter) writeAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
