package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDirectoryExists(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing directory
	require.NoError(t, EnsureDirectoryExists(dir))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "missing.txt")))
	assert.False(t, FileExists(dir), "directories are not files")
}

func TestCountLinesInFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int64
	}{
		{"empty", "", 0},
		{"single line no newline", "password", 1},
		{"three lines", "one\ntwo\nthree\n", 3},
		{"trailing blank line ignored by scanner", "one\ntwo\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "words.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			count, err := CountLinesInFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)
		})
	}
}

func TestCountLinesInFileMissing(t *testing.T) {
	_, err := CountLinesInFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
