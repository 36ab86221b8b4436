// Package cache keeps parsed notes on disk so unchanged notes are not read
// again on the next build.
package cache

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/util"
	"golang.org/x/sync/errgroup"
)

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonError
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonNotFound
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNoFingerprint:
		return "no-fingerprint"
	default:
		return "not-found"
	}
}

// fingerprintAfter is the age past which a note with matching size and
// modtime is trusted without hashing it.
const fingerprintAfter = 48 * time.Hour

// Entry is one cached note.
type Entry struct {
	FilePath     string       `json:"file_path"`
	FileSize     int64        `json:"file_size"`
	LastModified int64        `json:"last_modified"`
	Fingerprint  string       `json:"fingerprint,omitempty"`
	Day          model.LogDay `json:"day"`
}

type Result struct {
	Day        model.LogDay
	Found      bool
	MissReason MissReason
}

// FileCache stores one JSON file per note under baseDir, with an in-memory
// copy of every entry read or written.
type FileCache struct {
	baseDir string
	mu      sync.RWMutex
	memory  map[string]*Entry
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{
		baseDir: baseDir,
		memory:  make(map[string]*Entry),
	}, nil
}

func (c *FileCache) Dir() string {
	return c.baseDir
}

// entryFile names the cache file of a note: its base name plus a hash of the
// full path, so notes with the same name in different folders do not collide.
func (c *FileCache) entryFile(notePath string) string {
	base := strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
	return filepath.Join(c.baseDir, fmt.Sprintf("%s-%08x.json", base, crc32.ChecksumIEEE([]byte(notePath))))
}

// Get returns the cached day of a note if the note has not changed since it
// was stored.
func (c *FileCache) Get(notePath string) Result {
	c.mu.RLock()
	entry, ok := c.memory[notePath]
	c.mu.RUnlock()

	if !ok {
		var reason MissReason
		entry, reason = c.readEntry(c.entryFile(notePath))
		if entry == nil {
			return Result{MissReason: reason}
		}
		if entry.FilePath != notePath {
			return Result{MissReason: MissReasonNotFound}
		}
	}

	if reason := validate(entry); reason != MissReasonNone {
		c.mu.Lock()
		delete(c.memory, notePath)
		c.mu.Unlock()
		return Result{MissReason: reason}
	}

	c.mu.Lock()
	c.memory[notePath] = entry
	c.mu.Unlock()
	return Result{Day: entry.Day, Found: true}
}

func (c *FileCache) readEntry(path string) (*Entry, MissReason) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, MissReasonNotFound
	}
	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		util.LogDebug(fmt.Sprintf("Unreadable cache file %s: %v", path, err))
		return nil, MissReasonError
	}
	return &entry, MissReasonNone
}

func validate(entry *Entry) MissReason {
	info, err := os.Stat(entry.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache validation failed for %s: %v", entry.FilePath, err))
		return MissReasonError
	}

	if info.Size() != entry.FileSize {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.FilePath, entry.FileSize, info.Size()))
		return MissReasonSize
	}
	if info.ModTime().UnixNano() != entry.LastModified {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: modtime changed", entry.FilePath))
		return MissReasonModTime
	}

	if time.Since(info.ModTime()) > fingerprintAfter {
		return MissReasonNone
	}

	if entry.Fingerprint == "" {
		return MissReasonNoFingerprint
	}
	fp, err := util.Fingerprint(entry.FilePath)
	if err != nil {
		return MissReasonNoFingerprint
	}
	if fp != entry.Fingerprint {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			entry.FilePath, entry.Fingerprint, fp))
		return MissReasonFingerprint
	}
	return MissReasonNone
}

// Set stores the parsed day of a note along with the note's current size,
// modtime and fingerprint.
func (c *FileCache) Set(notePath string, day model.LogDay) error {
	info, err := os.Stat(notePath)
	if err != nil {
		return err
	}

	entry := &Entry{
		FilePath:     notePath,
		FileSize:     info.Size(),
		LastModified: info.ModTime().UnixNano(),
		Day:          day,
	}
	if fp, err := util.Fingerprint(notePath); err == nil {
		entry.Fingerprint = fp
	}

	data, err := sonic.ConfigStd.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.WriteFile(c.entryFile(notePath), data, 0644); err != nil {
		return err
	}
	c.memory[notePath] = entry
	return nil
}

// Load and Save let the cache back a notes.Parser.
func (c *FileCache) Load(notePath string) (model.LogDay, bool) {
	r := c.Get(notePath)
	if !r.Found {
		util.LogDebug(fmt.Sprintf("Cache miss for %s: %s", notePath, r.MissReason))
	}
	return r.Day, r.Found
}

func (c *FileCache) Save(notePath string, day model.LogDay) error {
	return c.Set(notePath, day)
}

// Delete drops a note's entry.
func (c *FileCache) Delete(notePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.memory, notePath)
	if err := os.Remove(c.entryFile(notePath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every entry.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memory = make(map[string]*Entry)
	files, err := c.listFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (c *FileCache) listFiles() ([]string, error) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			files = append(files, filepath.Join(c.baseDir, e.Name()))
		}
	}
	return files, nil
}

// Preload reads every cache file into memory, keeping the entries whose
// notes are unchanged. It returns the number of entries loaded.
func (c *FileCache) Preload(ctx context.Context) (int, error) {
	files, err := c.listFiles()
	if err != nil {
		return 0, fmt.Errorf("failed to scan cache directory: %w", err)
	}
	if len(files) == 0 {
		util.LogDebug("Cache directory is empty, skipping preload")
		return 0, nil
	}

	entries := make([]*Entry, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, _ := c.readEntry(f)
			if entry != nil && entry.FilePath != "" && validate(entry) == MissReasonNone {
				entries[i] = entry
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	loaded := 0
	c.mu.Lock()
	for _, e := range entries {
		if e != nil {
			c.memory[e.FilePath] = e
			loaded++
		}
	}
	c.mu.Unlock()

	util.LogInfo(fmt.Sprintf("Cache preload complete: %d of %d entries valid", loaded, len(files)))
	return loaded, nil
}

// Stats reports the number of entries in memory and on disk.
func (c *FileCache) Stats() (memoryCount, fileCount int) {
	c.mu.RLock()
	memoryCount = len(c.memory)
	c.mu.RUnlock()

	files, _ := c.listFiles()
	return memoryCount, len(files)
}
