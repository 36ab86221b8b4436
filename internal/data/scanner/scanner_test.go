package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("note"), 0644))
	}
}

func TestNewNoteScanner(t *testing.T) {
	s := NewNoteScanner("/tmp/vault")
	assert.Equal(t, "/tmp/vault", s.BaseDir())
	assert.Equal(t, filepath.Join("/tmp/vault", "2025-10-09.md"), s.Path(date("2025-10-09")))
}

func TestScanRange(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir, "2025-09-30.md", "2025-10-01.md", "2025-10-03.md", "2025-10-05.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2025-10-02.md"), 0755))

	s := NewNoteScanner(dir)
	files, err := s.ScanRange(date("2025-10-01"), date("2025-10-04"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2025-10-01.md"),
		filepath.Join(dir, "2025-10-03.md"),
	}, files)

	reversed, err := s.ScanRange(date("2025-10-04"), date("2025-10-01"))
	require.NoError(t, err)
	assert.Equal(t, files, reversed)
}

func TestScanRangeMissingDirectory(t *testing.T) {
	_, err := NewNoteScanner("/path/that/does/not/exist").ScanRange(date("2025-10-01"), date("2025-10-02"))
	assert.Error(t, err)

	dir := t.TempDir()
	createFiles(t, dir, "file.txt")
	_, err = NewNoteScanner(filepath.Join(dir, "file.txt")).ScanRange(date("2025-10-01"), date("2025-10-02"))
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir,
		"2025-10-02.md",
		"sub/2025-10-01.MD",
		"readme.md",
		"2025-13-01.md",
		"2025-10-03.txt",
	)

	files, err := NewNoteScanner(dir).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "sub", "2025-10-01.MD"),
		filepath.Join(dir, "2025-10-02.md"),
	}, files)
}

func TestScanNonExistentDirectory(t *testing.T) {
	files, err := NewNoteScanner("/path/that/does/not/exist").Scan()
	require.NoError(t, err, "walk errors are skipped")
	assert.Empty(t, files)
}

func TestIsDailyNote(t *testing.T) {
	assert.True(t, IsDailyNote("/a/2025-10-09.md"))
	assert.True(t, IsDailyNote("2025-10-09.MD"))
	assert.False(t, IsDailyNote("2025-10-09.md.swp"))
	assert.False(t, IsDailyNote("notes.md"))
}
