package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	ErrEmptyFilename = errors.New("filename cannot be empty")
	ErrIsDirectory   = errors.New("path is a directory, not a file")
	ErrFileTooLarge  = errors.New("file exceeds size limit")
)

// StatInputFile returns the file info of a regular file no larger than maxSize.
// A maxSize of zero or less disables the size check. Missing files yield an
// error matching os.ErrNotExist.
func StatInputFile(filename string, maxSize int64) (os.FileInfo, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot access file %s: %w", filename, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, filename)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrFileTooLarge,
			filename, FormatFileSize(info.Size()), FormatFileSize(maxSize))
	}
	return info, nil
}

// ReadFileLimited reads filename after StatInputFile accepts it. A file that
// grows past maxSize between the stat and the read is still rejected.
func ReadFileLimited(filename string, maxSize int64) ([]byte, error) {
	if _, err := StatInputFile(filename, maxSize); err != nil {
		return nil, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content %s: %w", filename, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, filename)
	}
	return data, nil
}

// EnsureOutputDir creates the parent directory of an output path.
// An empty filename means stdout and is always valid.
func EnsureOutputDir(filename string) error {
	if filename == "" {
		return nil
	}

	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	return nil
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
