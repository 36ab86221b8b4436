package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-daylog/internal/util"
)

// NoteExt is the extension of daily notes.
const NoteExt = ".md"

// NoteScanner finds daily notes named "YYYY-MM-DD.md" in a directory.
type NoteScanner struct {
	baseDir string
}

func NewNoteScanner(baseDir string) *NoteScanner {
	return &NoteScanner{baseDir: baseDir}
}

// BaseDir is the scanned directory.
func (s *NoteScanner) BaseDir() string {
	return s.baseDir
}

// Path is the note path for day, whether or not it exists.
func (s *NoteScanner) Path(day time.Time) string {
	return filepath.Join(s.baseDir, day.Format(util.DateLayout)+NoteExt)
}

// ScanRange returns the existing notes from start to end inclusive, in date
// order. Days without a note are skipped. A reversed range is swapped.
func (s *NoteScanner) ScanRange(start, end time.Time) ([]string, error) {
	begin := time.Now()
	util.LogDebug(fmt.Sprintf("Start scanning notes: %s (%s ~ %s)",
		s.baseDir, start.Format(util.DateLayout), end.Format(util.DateLayout)))

	info, err := os.Stat(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("notes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notes directory: %s is not a directory", s.baseDir)
	}

	var files []string
	days := util.DaysInRange(start, end)
	for _, day := range days {
		path := s.Path(day)
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		files = append(files, path)
	}

	util.LogDebug(fmt.Sprintf("Note scan completed: duration %v, %d days in range, found %d notes",
		time.Since(begin), len(days), len(files)))
	return files, nil
}

// Scan walks the directory and returns every daily note, sorted by date.
// Unreadable entries are skipped.
func (s *NoteScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if IsDailyNote(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d notes",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}

// IsDailyNote reports whether path is named after a calendar date.
func IsDailyNote(path string) bool {
	base := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(base), NoteExt) {
		return false
	}
	_, err := time.Parse(util.DateLayout, strings.TrimSuffix(base, filepath.Ext(base)))
	return err == nil
}
