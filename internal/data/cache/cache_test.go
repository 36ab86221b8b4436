package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func sampleDay(date string) model.LogDay {
	day := model.NewLogDay(date)
	day.Sleep = []model.SleepEntry{{Hours: "7", Start: "2330", End: "0630"}}
	day.Diet = []model.DietEntry{{Time: "1230", Item: "lunch", Images: []string{"a.jpg"}}}
	return day
}

func TestNewFileCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	c, err := NewFileCache(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())
	assert.Empty(t, c.memory)
	assert.DirExists(t, dir)
}

func TestNewFileCacheInvalidDirectory(t *testing.T) {
	file := writeNote(t, t.TempDir(), "file.txt", "content")

	c, err := NewFileCache(filepath.Join(file, "subdir"))
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestSetAndGet(t *testing.T) {
	notes := t.TempDir()
	note := writeNote(t, notes, "2025-10-01.md", "note body")
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	r := c.Get(note)
	assert.False(t, r.Found)
	assert.Equal(t, MissReasonNotFound, r.MissReason)

	require.NoError(t, c.Set(note, sampleDay("2025-10-01")))
	r = c.Get(note)
	require.True(t, r.Found)
	assert.Equal(t, sampleDay("2025-10-01"), r.Day)

	// a second cache over the same directory reads the entry from disk
	other, err := NewFileCache(c.Dir())
	require.NoError(t, err)
	day, ok := other.Load(note)
	require.True(t, ok)
	assert.Equal(t, "2025-10-01", day.Date)
	assert.Equal(t, model.Text("2330"), day.Sleep[0].Start)
}

func TestSameNameInDifferentFolders(t *testing.T) {
	a := writeNote(t, t.TempDir(), "2025-10-01.md", "a")
	b := writeNote(t, t.TempDir(), "2025-10-01.md", "b")
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(a, sampleDay("2025-10-01")))
	assert.False(t, c.Get(b).Found)
	assert.NotEqual(t, c.entryFile(a), c.entryFile(b))
}

func TestGetInvalidatesChangedNotes(t *testing.T) {
	t.Run("size", func(t *testing.T) {
		note := writeNote(t, t.TempDir(), "2025-10-01.md", "short")
		c, err := NewFileCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, c.Set(note, sampleDay("2025-10-01")))

		require.NoError(t, os.WriteFile(note, []byte("much longer body"), 0644))
		r := c.Get(note)
		assert.False(t, r.Found)
		assert.Equal(t, MissReasonSize, r.MissReason)
		assert.Empty(t, c.memory)
	})

	t.Run("modtime", func(t *testing.T) {
		note := writeNote(t, t.TempDir(), "2025-10-01.md", "body")
		c, err := NewFileCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, c.Set(note, sampleDay("2025-10-01")))

		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(note, later, later))
		assert.Equal(t, MissReasonModTime, c.Get(note).MissReason)
	})

	t.Run("fingerprint", func(t *testing.T) {
		note := writeNote(t, t.TempDir(), "2025-10-01.md", "body one")
		info, err := os.Stat(note)
		require.NoError(t, err)
		c, err := NewFileCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, c.Set(note, sampleDay("2025-10-01")))

		require.NoError(t, os.WriteFile(note, []byte("body two"), 0644))
		require.NoError(t, os.Chtimes(note, info.ModTime(), info.ModTime()))
		assert.Equal(t, MissReasonFingerprint, c.Get(note).MissReason)
	})

	t.Run("old notes skip the fingerprint", func(t *testing.T) {
		note := writeNote(t, t.TempDir(), "2025-10-01.md", "body one")
		old := time.Now().Add(-72 * time.Hour)
		require.NoError(t, os.Chtimes(note, old, old))
		c, err := NewFileCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, c.Set(note, sampleDay("2025-10-01")))

		require.NoError(t, os.WriteFile(note, []byte("body two"), 0644))
		require.NoError(t, os.Chtimes(note, old, old))
		assert.True(t, c.Get(note).Found)
	})

	t.Run("deleted note", func(t *testing.T) {
		note := writeNote(t, t.TempDir(), "2025-10-01.md", "body")
		c, err := NewFileCache(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, c.Set(note, sampleDay("2025-10-01")))

		require.NoError(t, os.Remove(note))
		assert.Equal(t, MissReasonError, c.Get(note).MissReason)
	})
}

func TestCorruptEntry(t *testing.T) {
	note := writeNote(t, t.TempDir(), "2025-10-01.md", "body")
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.entryFile(note), []byte("{not json"), 0644))

	assert.Equal(t, MissReasonError, c.Get(note).MissReason)
}

func TestDeleteClearAndStats(t *testing.T) {
	dir := t.TempDir()
	a := writeNote(t, dir, "2025-10-01.md", "a")
	b := writeNote(t, dir, "2025-10-02.md", "b")
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, c.Set(a, sampleDay("2025-10-01")))
	require.NoError(t, c.Set(b, sampleDay("2025-10-02")))

	mem, files := c.Stats()
	assert.Equal(t, 2, mem)
	assert.Equal(t, 2, files)

	require.NoError(t, c.Delete(a))
	require.NoError(t, c.Delete(a), "deleting twice is fine")
	assert.False(t, c.Get(a).Found)

	require.NoError(t, c.Clear())
	mem, files = c.Stats()
	assert.Zero(t, mem)
	assert.Zero(t, files)
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	a := writeNote(t, dir, "2025-10-01.md", "a")
	b := writeNote(t, dir, "2025-10-02.md", "b")
	cacheDir := t.TempDir()

	writer, err := NewFileCache(cacheDir)
	require.NoError(t, err)
	require.NoError(t, writer.Set(a, sampleDay("2025-10-01")))
	require.NoError(t, writer.Set(b, sampleDay("2025-10-02")))
	require.NoError(t, os.WriteFile(b, []byte("changed b"), 0644))

	c, err := NewFileCache(cacheDir)
	require.NoError(t, err)
	loaded, err := c.Preload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Contains(t, c.memory, a)
	assert.NotContains(t, c.memory, b)

	empty, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	loaded, err = empty.Preload(context.Background())
	require.NoError(t, err)
	assert.Zero(t, loaded)
}

func TestMissReasonString(t *testing.T) {
	assert.Equal(t, "fingerprint", MissReasonFingerprint.String())
	assert.Equal(t, "not-found", MissReasonNotFound.String())
}
