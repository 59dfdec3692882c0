package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(file, []byte("0123456789"), 0600))

	tests := []struct {
		name    string
		path    string
		maxSize int64
		wantErr error
	}{
		{name: "regular file", path: file, maxSize: 10},
		{name: "no limit", path: file},
		{name: "empty name", path: "", wantErr: ErrEmptyFilename},
		{name: "missing", path: filepath.Join(dir, "nope.txt"), wantErr: os.ErrNotExist},
		{name: "directory", path: dir, wantErr: ErrIsDirectory},
		{name: "over limit", path: file, maxSize: 9, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := StatInputFile(tt.path, tt.maxSize)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, int64(10), info.Size())
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestReadFileLimited(t *testing.T) {
	file := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(file, []byte("Web Developer"), 0600))

	data, err := ReadFileLimited(file, 1024)
	require.NoError(t, err)
	assert.Equal(t, "Web Developer", string(data))

	_, err = ReadFileLimited(file, 4)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestEnsureOutputDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "analysis.md")
	require.NoError(t, EnsureOutputDir(out))

	info, err := os.Stat(filepath.Dir(out))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, EnsureOutputDir(""))
	assert.NoError(t, EnsureOutputDir("analysis.json"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "10.0 MB", FormatFileSize(10*1024*1024))
}
