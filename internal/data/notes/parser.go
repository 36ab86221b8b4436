// Package notes parses Obsidian daily notes into log days.
package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/util"
	"golang.org/x/sync/errgroup"
)

// Store persists parsed days between runs.
type Store interface {
	Load(path string) (model.LogDay, bool)
	Save(path string, day model.LogDay) error
}

// Parser parses note files, caching each result until the file changes.
type Parser struct {
	concurrency int
	store       Store
	mu          sync.Mutex
	cache       map[string]cachedDay
}

type Option func(*Parser)

// WithStore makes the parser consult store before reading a note and save
// every note it parses.
func WithStore(store Store) Option {
	return func(p *Parser) {
		p.store = store
	}
}

type cachedDay struct {
	modTime time.Time
	size    int64
	day     model.LogDay
}

// ParseResult is the outcome for one file of ParseFiles.
type ParseResult struct {
	File  string
	Day   model.LogDay
	Error error
}

// NewParser creates a parser running at most concurrency parses at once.
func NewParser(concurrency int, opts ...Option) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	p := &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cachedDay),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DateFromPath returns the file name without its extension, which is the
// note's date.
func DateFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFile parses the note at path.
func (p *Parser) ParseFile(path string) (model.LogDay, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.LogDay{}, err
	}

	p.mu.Lock()
	if cached, ok := p.cache[path]; ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		p.mu.Unlock()
		util.LogDebug(fmt.Sprintf("Cache hit: %s", path))
		return cached.day, nil
	}
	p.mu.Unlock()

	if p.store != nil {
		if day, ok := p.store.Load(path); ok {
			p.remember(path, info, day)
			return day, nil
		}
	}

	util.LogDebug(fmt.Sprintf("Start parsing note: %s", path))

	file, err := os.Open(path)
	if err != nil {
		return model.LogDay{}, err
	}
	defer file.Close()

	day, err := Parse(file, DateFromPath(path))
	if err != nil {
		return model.LogDay{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	p.remember(path, info, day)
	if p.store != nil {
		if err := p.store.Save(path, day); err != nil {
			util.LogWarn("Failed to cache note", util.F("file", path), util.F("error", err))
		}
	}
	return day, nil
}

func (p *Parser) remember(path string, info os.FileInfo, day model.LogDay) {
	p.mu.Lock()
	p.cache[path] = cachedDay{modTime: info.ModTime(), size: info.Size(), day: day}
	p.mu.Unlock()
}

// ParseFiles parses files concurrently. Results keep the order of files;
// per-file failures are reported in the result, only cancellation of ctx
// fails the whole call.
func (p *Parser) ParseFiles(ctx context.Context, files []string) ([]ParseResult, error) {
	start := time.Now()
	results := make([]ParseResult, len(files))

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d notes, concurrency: %d", len(files), p.concurrency))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			day, err := p.ParseFile(f)
			if err != nil {
				util.LogWarn("Note parsing failed", util.F("file", f), util.F("error", err))
			}
			results[i] = ParseResult{File: f, Day: day, Error: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	return results, nil
}

// Days returns the days of the successful results, in order.
func Days(results []ParseResult) []model.LogDay {
	days := make([]model.LogDay, 0, len(results))
	for _, r := range results {
		if r.Error == nil {
			days = append(days, r.Day)
		}
	}
	return days
}

// Invalidate drops the cached result for path.
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}
