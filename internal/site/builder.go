// Package site builds the daily-log page: it collects notes for a date range,
// writes the JSON document, copies images and renders the host page.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/go-daylog/internal/core/dayview"
	"github.com/penwyp/go-daylog/internal/core/imagepath"
	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/data/assets"
	"github.com/penwyp/go-daylog/internal/data/cache"
	"github.com/penwyp/go-daylog/internal/data/notes"
	"github.com/penwyp/go-daylog/internal/data/scanner"
	"github.com/penwyp/go-daylog/internal/presentation/dom"
	"github.com/penwyp/go-daylog/internal/presentation/page"
	"github.com/penwyp/go-daylog/internal/presentation/templates"
	"github.com/penwyp/go-daylog/internal/util"
)

// Config holds the inputs of a build.
type Config struct {
	VaultDaily  string
	VaultAssets string
	SiteImages  string
	// AssetURL and FallbackRoot form the image candidates written to the
	// page.
	AssetURL     string
	FallbackRoot string
	IndexPath    string
	DataPath     string
	Start        time.Time
	End          time.Time
	CopyImages   bool
	// CheckImages checks candidates on disk at build time instead of
	// leaving the fallback to the browser.
	CheckImages bool
	Concurrency int
	// CacheDir keeps parsed notes between runs; empty disables it.
	CacheDir   string
	ClearCache bool
}

// Result reports what a build wrote.
type Result struct {
	Start     time.Time
	End       time.Time
	Days      int
	Failed    []string
	DataPath  string
	IndexPath string
	RangePath string
	Images    assets.Report
	Duration  time.Duration
}

type Builder struct {
	cfg     Config
	scanner *scanner.NoteScanner
	parser  *notes.Parser
}

func NewBuilder(cfg Config) *Builder {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	cfg.Start, cfg.End = util.OrderRange(cfg.Start, cfg.End)

	var opts []notes.Option
	if store := openCache(cfg.CacheDir, cfg.ClearCache); store != nil {
		opts = append(opts, notes.WithStore(store))
	}
	return &Builder{
		cfg:     cfg,
		scanner: scanner.NewNoteScanner(cfg.VaultDaily),
		parser:  notes.NewParser(cfg.Concurrency, opts...),
	}
}

// openCache returns nil when dir is empty or unusable; builds then parse
// every note.
func openCache(dir string, clear bool) *cache.FileCache {
	if dir == "" {
		return nil
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		util.LogWarn("Note cache disabled", util.F("dir", dir), util.F("error", err))
		return nil
	}
	if clear {
		if err := c.Clear(); err != nil {
			util.LogWarn("Failed to clear note cache", util.F("dir", dir), util.F("error", err))
		} else {
			util.LogInfo("Cache cleared")
		}
	}
	return c
}

// Config returns the effective configuration, with the range ordered.
func (b *Builder) Config() Config {
	return b.cfg
}

// Collect parses every note in the range. Unreadable notes are skipped and
// listed in the returned failures.
func (b *Builder) Collect(ctx context.Context) ([]model.LogDay, []string, error) {
	files, err := b.scanner.ScanRange(b.cfg.Start, b.cfg.End)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan notes: %w", err)
	}

	results, err := b.parser.ParseFiles(ctx, files)
	if err != nil {
		return nil, nil, err
	}

	var failed []string
	for _, r := range results {
		if r.Error != nil {
			failed = append(failed, r.File)
		}
	}
	return notes.Days(results), failed, nil
}

// Run performs a full build.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{
		Start:     b.cfg.Start,
		End:       b.cfg.End,
		DataPath:  b.cfg.DataPath,
		IndexPath: b.cfg.IndexPath,
	}

	days, failed, err := b.Collect(ctx)
	if err != nil {
		return nil, err
	}
	res.Days = len(days)
	res.Failed = failed
	doc := model.NewMultiDay(days)

	// An unusable host page fails the build before anything is written.
	pg, err := LoadPage(b.cfg.IndexPath)
	if err != nil {
		return nil, err
	}
	embedded, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode data: %w", err)
	}
	if err := pg.SetData(embedded); err != nil {
		return nil, fmt.Errorf("failed to embed data into %s: %w", b.cfg.IndexPath, err)
	}
	if err := pg.ClearRoot(); err != nil {
		return nil, fmt.Errorf("failed to render into %s: %w", b.cfg.IndexPath, err)
	}

	if b.cfg.DataPath != "" {
		data, err := doc.MarshalIndent()
		if err != nil {
			return nil, fmt.Errorf("failed to encode data: %w", err)
		}
		if err := writeFile(b.cfg.DataPath, data); err != nil {
			return nil, fmt.Errorf("failed to write data: %w", err)
		}
	}

	if b.cfg.CopyImages {
		copier := assets.NewCopier(b.cfg.VaultAssets, b.cfg.SiteImages, b.cfg.Concurrency)
		report, err := copier.CopyForDays(ctx, days)
		if err != nil {
			return nil, fmt.Errorf("failed to copy images: %w", err)
		}
		res.Images = report
	}

	if err := b.renderer().Render(ctx, doc, pg); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	html, err := pg.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page: %w", err)
	}
	if err := writeFile(b.cfg.IndexPath, html); err != nil {
		return nil, fmt.Errorf("failed to write index: %w", err)
	}

	res.RangePath = RangePath(b.cfg.IndexPath, b.cfg.Start, b.cfg.End)
	if err := writeFile(res.RangePath, html); err != nil {
		return nil, fmt.Errorf("failed to write range file: %w", err)
	}

	res.Duration = time.Since(start)
	util.LogInfo("Build finished",
		util.F("days", res.Days),
		util.F("failed", len(res.Failed)),
		util.F("index", res.IndexPath),
		util.F("range_file", res.RangePath),
		util.F("duration", res.Duration.String()))
	return res, nil
}

func (b *Builder) renderer() *page.Renderer {
	return NewRenderer(b.cfg.AssetURL, b.cfg.FallbackRoot, b.cfg.CheckImages, filepath.Dir(b.cfg.IndexPath))
}

// NewRenderer returns a page renderer for the given image locations. With
// check set, candidates are checked against siteRoot and the local disk.
func NewRenderer(assetURL, fallbackRoot string, check bool, siteRoot string) *page.Renderer {
	opts := []page.Option{
		page.WithFormatter(dayview.NewFormatter(imagepath.NewResolver(assetURL, fallbackRoot))),
	}
	if check {
		opts = append(opts, page.WithLoader(imagepath.FileLoader{SiteRoot: siteRoot}))
	}
	return page.NewRenderer(opts...)
}

// RangePath is the dated copy of the index written next to it, named
// "index-YYYYMMDD-YYYYMMDD.html".
func RangePath(indexPath string, start, end time.Time) string {
	name := fmt.Sprintf("index-%s-%s.html",
		start.Format(util.CompactDateLayout), end.Format(util.CompactDateLayout))
	return filepath.Join(filepath.Dir(indexPath), name)
}

// LoadPage parses the host page at path, or the built-in page when the file
// does not exist yet.
func LoadPage(path string) (*dom.Document, error) {
	pg, err := dom.ParseFile(path)
	if err == nil {
		return pg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	util.LogInfo("Index not found, starting from the built-in page", util.F("index", path))
	return dom.Parse(bytes.NewReader(templates.Shell()))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
