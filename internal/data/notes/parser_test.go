package notes

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

func TestNewParser(t *testing.T) {
	p := NewParser(4)
	assert.Equal(t, 4, p.concurrency)
	assert.Empty(t, p.cache)

	assert.Equal(t, 1, NewParser(0).concurrency)
}

func TestDateFromPath(t *testing.T) {
	assert.Equal(t, "2025-10-09", DateFromPath("/vault/02_Daily/2025-10-09.md"))
	assert.Equal(t, "note", DateFromPath("note"))
}

func TestParseFileUsesCacheUntilChanged(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "2025-10-09.md", "#### 飲食\n飲食項目：早餐\n")

	p := NewParser(1)
	day, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-09", day.Date)
	require.Len(t, day.Diet, 1)
	assert.Len(t, p.cache, 1)

	require.NoError(t, os.WriteFile(path, []byte("#### 飲食\n飲食項目：早餐\n飲食時間(HHMM)：1200\n飲食項目：午餐\n"), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	day, err = p.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, day.Diet, 2, "changed file is parsed again")

	p.Invalidate(path)
	assert.Empty(t, p.cache)
}

func TestParseFileMissing(t *testing.T) {
	_, err := NewParser(1).ParseFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestParseFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"2025-10-01.md", "2025-10-02.md", "2025-10-03.md", "2025-10-04.md"} {
		files = append(files, writeNote(t, dir, name, "#### 運動\n種類：走路\n"))
	}
	files = append(files, filepath.Join(dir, "2025-10-05.md"))

	results, err := NewParser(2).ParseFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, r := range results[:4] {
		assert.Equal(t, files[i], r.File)
		assert.NoError(t, r.Error)
	}
	assert.Error(t, results[4].Error)

	days := Days(results)
	require.Len(t, days, 4)
	assert.Equal(t, "2025-10-01", days[0].Date)
	assert.Equal(t, "2025-10-04", days[3].Date)
}

func TestParseFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "2025-10-01.md", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(1).ParseFiles(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

type mapStore struct {
	days  map[string]model.LogDay
	saves int
}

func (s *mapStore) Load(path string) (model.LogDay, bool) {
	day, ok := s.days[path]
	return day, ok
}

func (s *mapStore) Save(path string, day model.LogDay) error {
	s.days[path] = day
	s.saves++
	return nil
}

func TestParseFileWithStore(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "2025-10-09.md", "#### 飲食\n飲食項目：早餐\n")
	store := &mapStore{days: map[string]model.LogDay{}}

	day, err := NewParser(1, WithStore(store)).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, day.Diet, 1)
	assert.Equal(t, 1, store.saves)

	// a fresh parser takes the stored day without reading the note
	stored := model.NewLogDay("2025-10-09")
	stored.FitnessNotes = []string{"from store"}
	store.days[path] = stored

	day, err = NewParser(1, WithStore(store)).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"from store"}, day.FitnessNotes)
	assert.Equal(t, 1, store.saves)
}
